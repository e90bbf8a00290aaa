package mongo

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/prodigypm/pkg/logger"
)

// State is the lifecycle state of the managed connection.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateErrored      State = "errored"
)

var states = []State{StateDisconnected, StateConnecting, StateConnected, StateErrored}

// Status is a snapshot of the manager. Host and Name are set while a client is held.
type Status struct {
	IsConnected bool   `json:"is_connected"`
	State       State  `json:"state"`
	Host        string `json:"host,omitempty"`
	Name        string `json:"name,omitempty"`
}

// IndexProvisioner creates indexes on a fresh connection.
type IndexProvisioner interface {
	Provision(ctx context.Context, c IndexCreator) error
}

// Manager owns the single store connection of the process.
//
// Connect and Disconnect are serialized through a one-slot semaphore that both
// acquire with their context. State changes, whether caused by those calls or by
// driver events, happen under a separate lock so event callbacks never wait for
// a connect attempt in progress.
type Manager struct {
	cfg         ConnectionConfig
	policy      RetryPolicy
	host        string
	dialer      Dialer
	indexes     []IndexSpec
	provisioner IndexProvisioner
	bridge      *EventBridge
	metrics     *Metrics
	log         Logger
	sleep       func(ctx context.Context, d time.Duration) error

	ops chan struct{}

	mu            sync.RWMutex
	state         State
	conn          Conn
	attempts      int
	cancelConnect context.CancelFunc

	hookRegistered atomic.Bool
}

// New returns a disconnected manager. No I/O happens until Connect.
func New(cfg ConnectionConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg,
		policy:  DefaultRetryPolicy(),
		host:    hostsFromURI(cfg.URI),
		dialer:  MongoDialer{},
		indexes: DefaultIndexes(),
		log:     discardLogger(),
		sleep:   sleepContext,
		state:   StateDisconnected,
		ops:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.provisioner == nil {
		m.provisioner = NewProvisioner(m.log, m.indexes...)
	}
	m.bridge = NewEventBridge(m)
	m.metrics.setState(m.state)
	return m
}

// Connect establishes the connection, retrying with exponential backoff.
// It is a no-op when already connected. Index provisioning runs once after the
// connection succeeds; its failure is logged and does not fail Connect.
// A concurrent Disconnect cancels the loop.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return &ConnectionError{Err: err}
	}
	defer m.release()

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		m.mu.Lock()
		m.cancelConnect = nil
		m.mu.Unlock()
		cancel()
	}()

	m.mu.Lock()
	if m.state == StateConnected {
		m.mu.Unlock()
		m.log.InfoContext(ctx, "Mongo already connected", logger.Component(component))
		return nil
	}
	m.cancelConnect = cancel
	stale := m.conn
	m.conn = nil
	m.attempts = 0
	m.setStateLocked(StateConnecting)
	m.mu.Unlock()

	if stale != nil {
		if err := stale.Disconnect(ctx); err != nil {
			m.log.WarnContext(ctx, "Failed to close stale mongo client", logger.Component(component), logger.Error(err))
		}
	}

	connectID := uuid.NewString()
	var lastErr error
	for {
		attempt := m.nextAttempt()
		m.bridge.Reset()
		m.log.InfoContext(ctx, "Connecting to mongo",
			logger.Component(component),
			logger.ConnectID(connectID),
			logger.Attempt(attempt),
			logger.MaxAttempts(m.policy.MaxRetries),
		)

		conn, err := m.dialer.Dial(ctx, m.cfg, m.bridge.ServerMonitor())
		if err == nil {
			m.metrics.attempt(true)
			m.mu.Lock()
			m.conn = conn
			m.setStateLocked(StateConnected)
			m.mu.Unlock()

			m.log.InfoContext(ctx, "Connected to mongo",
				logger.Component(component),
				logger.ConnectID(connectID),
				logger.Attempt(attempt),
				logger.Host(m.host),
				logger.Database(m.cfg.DatabaseName),
			)
			m.provision(ctx, conn)
			return nil
		}

		m.metrics.attempt(false)
		lastErr = err
		if attempt >= m.policy.MaxRetries || ctx.Err() != nil {
			break
		}

		delay := DelayFor(attempt, m.policy)
		m.log.WarnContext(ctx, "Mongo connection attempt failed, retrying",
			logger.Component(component),
			logger.ConnectID(connectID),
			logger.Attempt(attempt),
			logger.Delay(delay),
			logger.Error(err),
		)
		if err := m.sleep(ctx, delay); err != nil {
			lastErr = fmt.Errorf("%w (last attempt: %w)", err, lastErr)
			break
		}
	}

	m.mu.Lock()
	attempts := m.attempts
	m.setStateLocked(StateErrored)
	m.mu.Unlock()

	m.log.ErrorContext(ctx, fmt.Sprintf("Failed to connect to mongo after %d attempts", attempts),
		logger.Component(component),
		logger.ConnectID(connectID),
		logger.Attempt(attempts),
		logger.Error(lastErr),
	)
	return &ConnectionError{Attempts: attempts, Err: lastErr}
}

// Disconnect closes the held client. The state is always disconnected afterwards,
// even when closing fails; the close error is still returned.
//
// A running Connect loop is cancelled first. If the loop does not give way before
// ctx ends, Disconnect returns a DisconnectError wrapping ctx.Err() and the state
// is left to the loop.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.RLock()
	if m.cancelConnect != nil {
		m.cancelConnect()
	}
	m.mu.RUnlock()

	if err := m.acquire(ctx); err != nil {
		m.log.ErrorContext(ctx, "Gave up waiting for mongo connect to stop", logger.Component(component), logger.Error(err))
		return &DisconnectError{Err: err}
	}
	defer m.release()

	m.mu.Lock()
	conn := m.conn
	if conn == nil && m.state == StateDisconnected {
		m.mu.Unlock()
		return nil
	}
	m.conn = nil
	m.setStateLocked(StateDisconnected)
	m.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := conn.Disconnect(ctx); err != nil {
		m.log.ErrorContext(ctx, "Failed to disconnect from mongo", logger.Component(component), logger.Error(err))
		return &DisconnectError{Err: err}
	}
	m.log.InfoContext(ctx, "Disconnected from mongo", logger.Component(component))
	return nil
}

// Status returns the current state without side effects.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Status{
		IsConnected: m.state == StateConnected,
		State:       m.state,
	}
	if m.conn != nil {
		st.Host = m.host
		st.Name = m.cfg.DatabaseName
	}
	return st
}

// Attempts returns the number of attempts made by the latest Connect call.
func (m *Manager) Attempts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attempts
}

// Ping checks the held connection. It returns ErrNotConnected unless connected.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	conn, state := m.conn, m.state
	m.mu.RUnlock()

	if conn == nil || state != StateConnected {
		return ErrNotConnected
	}
	return conn.Ping(ctx)
}

// Database returns the application database, or nil when no client is held.
func (m *Manager) Database() *mongo.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.conn == nil {
		return nil
	}
	return m.conn.Database()
}

// Config returns the connection configuration.
func (m *Manager) Config() ConnectionConfig { return m.cfg }

// RetryPolicy returns the retry policy.
func (m *Manager) RetryPolicy() RetryPolicy { return m.policy }

// Bridge returns the driver event bridge registered at construction.
func (m *Manager) Bridge() *EventBridge { return m.bridge }

// HandleEvent applies a driver event to the state. It never fails; events that
// do not apply to the current state are logged and dropped.
func (m *Manager) HandleEvent(ctx context.Context, e Event) {
	m.metrics.event(e.Type)

	m.mu.Lock()
	prev := m.state
	next := prev
	switch e.Type {
	case EventConnected, EventReconnected:
		if m.conn != nil && (prev == StateDisconnected || prev == StateErrored) {
			next = StateConnected
		}
	case EventDisconnected:
		if prev == StateConnected {
			next = StateDisconnected
		}
	case EventError:
		if prev == StateConnected {
			next = StateErrored
		}
	}
	if next != prev {
		m.setStateLocked(next)
	}
	m.mu.Unlock()

	attrs := []any{
		logger.Component(component),
		logger.Event(string(e.Type)),
		logger.State(string(next)),
		logger.Host(e.Address),
	}
	switch e.Type {
	case EventDisconnected:
		m.log.WarnContext(ctx, "Mongo connection lost", append(attrs, logger.Error(e.Err))...)
	case EventError:
		m.log.ErrorContext(ctx, "Mongo connection error", append(attrs, logger.Error(e.Err))...)
	case EventReconnected:
		m.log.InfoContext(ctx, "Mongo connection restored", attrs...)
	default:
		m.log.InfoContext(ctx, "Mongo connection established", attrs...)
	}
}

func (m *Manager) provision(ctx context.Context, conn Conn) {
	if err := m.provisioner.Provision(ctx, conn); err != nil {
		m.metrics.indexFailure(err)
		m.log.ErrorContext(ctx, "Failed to provision mongo indexes", logger.Component(component), logger.Error(err))
	}
}

// acquire takes the operation slot, giving up when ctx ends first.
func (m *Manager) acquire(ctx context.Context) error {
	select {
	case m.ops <- struct{}{}:
		return nil
	default:
	}
	select {
	case m.ops <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) release() { <-m.ops }

func (m *Manager) nextAttempt() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	return m.attempts
}

func (m *Manager) setStateLocked(s State) {
	m.state = s
	m.metrics.setState(s)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// hostsFromURI returns the host list of the URI without credentials, or "" if it
// cannot be parsed. SRV records are reported as written, not resolved.
func hostsFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Host
}
