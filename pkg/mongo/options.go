package mongo

import (
	"context"
	"time"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. A nil logger keeps the discard logger.
func WithLogger(l Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithRetryPolicy overrides the default retry policy.
// Panics on an invalid policy; misconfiguration should stop startup.
func WithRetryPolicy(p RetryPolicy) Option {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return func(m *Manager) { m.policy = p }
}

// WithDialer replaces the driver-backed dialer.
func WithDialer(d Dialer) Option {
	if d == nil {
		panic("WithDialer: nil dialer")
	}
	return func(m *Manager) { m.dialer = d }
}

// WithIndexes sets the indexes provisioned after each successful connect.
func WithIndexes(specs ...IndexSpec) Option {
	return func(m *Manager) { m.indexes = specs }
}

// WithProvisioner replaces the index provisioner entirely.
func WithProvisioner(p IndexProvisioner) Option {
	if p == nil {
		panic("WithProvisioner: nil provisioner")
	}
	return func(m *Manager) { m.provisioner = p }
}

// WithSleep replaces the wait between attempts. The function must return
// ctx.Err() if the context ends before d elapses.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	if fn == nil {
		panic("WithSleep: nil func")
	}
	return func(m *Manager) { m.sleep = fn }
}

// WithMetrics records lifecycle metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}
