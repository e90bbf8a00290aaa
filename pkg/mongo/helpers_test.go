package mongo_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/event"
	drivermongo "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/prodigypm/pkg/mongo"
)

var errDial = errors.New("connection refused")

type fakeConn struct {
	mu            sync.Mutex
	pingErr       error
	disconnectErr error
	indexErrs     map[string]error
	created       []string
	disconnects   int
}

func newFakeConn() *fakeConn {
	return &fakeConn{indexErrs: make(map[string]error)}
}

func (c *fakeConn) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pingErr
}

func (c *fakeConn) Disconnect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
	return c.disconnectErr
}

func (c *fakeConn) Database() *drivermongo.Database { return nil }

func (c *fakeConn) CreateIndex(_ context.Context, spec mongo.IndexSpec) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.indexErrs[spec.String()]; err != nil {
		return "", err
	}
	c.created = append(c.created, spec.String())
	return spec.Name(), nil
}

func (c *fakeConn) Created() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.created...)
}

func (c *fakeConn) Disconnects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}

// fakeDialer fails with errs[i] on call i+1 and returns conn once errs are used up
// (or when errs[i] is nil). With failAlways set every call fails with errDial.
type fakeDialer struct {
	mu         sync.Mutex
	errs       []error
	failAlways bool
	conn       *fakeConn
	calls      int
	monitors   []*event.ServerMonitor
}

func newFakeDialer(errs ...error) *fakeDialer {
	return &fakeDialer{errs: errs, conn: newFakeConn()}
}

func (d *fakeDialer) Dial(_ context.Context, _ mongo.ConnectionConfig, monitor *event.ServerMonitor) (mongo.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.monitors = append(d.monitors, monitor)
	if d.failAlways {
		return nil, errDial
	}
	if d.calls <= len(d.errs) && d.errs[d.calls-1] != nil {
		return nil, d.errs[d.calls-1]
	}
	return d.conn, nil
}

func (d *fakeDialer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

type countingProvisioner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProvisioner) Provision(context.Context, mongo.IndexCreator) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *countingProvisioner) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type eventRecorder struct {
	mu     sync.Mutex
	events []mongo.Event
}

func (r *eventRecorder) HandleEvent(_ context.Context, e mongo.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) Types() []mongo.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]mongo.EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func testConfig() mongo.ConnectionConfig {
	return mongo.NewConnectionConfig(mongo.EnvConfig{})
}

func newTestManager(d mongo.Dialer, s *sleepRecorder, opts ...mongo.Option) *mongo.Manager {
	base := []mongo.Option{
		mongo.WithDialer(d),
		mongo.WithSleep(s.Sleep),
		mongo.WithIndexes(testIndexes()...),
	}
	return mongo.New(testConfig(), append(base, opts...)...)
}

func testIndexes() []mongo.IndexSpec {
	return []mongo.IndexSpec{
		{Collection: "users", Keys: []mongo.IndexKey{{Field: "email", Direction: mongo.Ascending}}, Unique: true},
		{Collection: "issues", Keys: []mongo.IndexKey{
			{Field: "projectId", Direction: mongo.Ascending},
			{Field: "key", Direction: mongo.Ascending},
		}, Unique: true},
		{Collection: "sprints", Keys: []mongo.IndexKey{
			{Field: "projectId", Direction: mongo.Ascending},
			{Field: "startDate", Direction: mongo.Descending},
		}},
	}
}
