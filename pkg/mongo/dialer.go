package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Conn is a verified connection to the store.
type Conn interface {
	IndexCreator
	Ping(ctx context.Context) error
	Disconnect(ctx context.Context) error
	// Database returns the application database. Fakes may return nil.
	Database() *mongo.Database
}

// Dialer opens a connection and verifies it is usable.
type Dialer interface {
	Dial(ctx context.Context, cfg ConnectionConfig, monitor *event.ServerMonitor) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, cfg ConnectionConfig, monitor *event.ServerMonitor) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, cfg ConnectionConfig, monitor *event.ServerMonitor) (Conn, error) {
	return f(ctx, cfg, monitor)
}

// MongoDialer dials through the official driver.
type MongoDialer struct{}

// Dial creates a client and pings the primary within the server selection timeout.
// A client that fails the ping is disconnected before the error is returned.
func (MongoDialer) Dial(ctx context.Context, cfg ConnectionConfig, monitor *event.ServerMonitor) (Conn, error) {
	client, err := mongo.Connect(cfg.ClientOptions(monitor))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		if derr := client.Disconnect(context.WithoutCancel(ctx)); derr != nil {
			return nil, errors.Join(err, derr)
		}
		return nil, err
	}

	return &mongoConn{client: client, db: client.Database(cfg.DatabaseName)}, nil
}

type mongoConn struct {
	client *mongo.Client
	db     *mongo.Database
}

func (c *mongoConn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *mongoConn) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *mongoConn) Database() *mongo.Database {
	return c.db
}

func (c *mongoConn) CreateIndex(ctx context.Context, spec IndexSpec) (string, error) {
	opts := options.Index().SetName(spec.Name())
	if spec.Unique {
		opts.SetUnique(true)
	}
	if spec.Sparse {
		opts.SetSparse(true)
	}
	return c.db.Collection(spec.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    spec.KeysDocument(),
		Options: opts,
	})
}
