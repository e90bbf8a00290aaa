package main

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/event"
	drivermongo "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/prodigypm/pkg/mongo"
)

type stubConn struct {
	failIndex string
	closed    int
}

func (c *stubConn) Ping(context.Context) error      { return nil }
func (c *stubConn) Database() *drivermongo.Database { return nil }

func (c *stubConn) Disconnect(context.Context) error {
	c.closed++
	return nil
}

func (c *stubConn) CreateIndex(_ context.Context, spec mongo.IndexSpec) (string, error) {
	if spec.String() == c.failIndex {
		return "", errors.New("index build failed")
	}
	return spec.Name(), nil
}

func dialer(conn *stubConn, err error) mongo.Dialer {
	return mongo.DialerFunc(func(context.Context, mongo.ConnectionConfig, *event.ServerMonitor) (mongo.Conn, error) {
		if err != nil {
			return nil, err
		}
		return conn, nil
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	noSleep := mongo.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() })
	log := slog.New(slog.DiscardHandler)

	tests := []struct {
		name       string
		conn       *stubConn
		dialErr    error
		wantCode   int
		wantClosed int
	}{
		{name: "connect exhausts retries", conn: &stubConn{}, dialErr: errors.New("connection refused"), wantCode: 1},
		{name: "index creation fails", conn: &stubConn{failIndex: "issues.projectId_1_key_1"}, wantCode: 1, wantClosed: 1},
		{name: "all indexes created", conn: &stubConn{}, wantCode: 0, wantClosed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code := run(context.Background(), log, mongo.WithDialer(dialer(tt.conn, tt.dialErr)), noSleep)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantClosed, tt.conn.closed)
		})
	}
}
