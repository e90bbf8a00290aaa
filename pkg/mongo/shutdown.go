package mongo

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/prodigypm/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

type shutdownConfig struct {
	log     Logger
	timeout time.Duration
	funcs   []func(context.Context) error
	signals []os.Signal
	notify  func(c chan<- os.Signal, sig ...os.Signal)
	stop    func(c chan<- os.Signal)
	exit    func(code int)
}

// ShutdownOption configures the shutdown hook.
type ShutdownOption func(*shutdownConfig)

// WithShutdownLogger sets the hook logger. Defaults to the discard logger.
func WithShutdownLogger(l Logger) ShutdownOption {
	return func(c *shutdownConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithShutdownTimeout bounds the time spent in shutdown funcs and the disconnect.
func WithShutdownTimeout(d time.Duration) ShutdownOption {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(c *shutdownConfig) { c.timeout = d }
}

// WithShutdownFunc registers a closer that runs before the store is disconnected,
// e.g. an HTTP server shutdown. Closers run in registration order.
func WithShutdownFunc(fn func(context.Context) error) ShutdownOption {
	if fn == nil {
		panic("WithShutdownFunc: nil func")
	}
	return func(c *shutdownConfig) { c.funcs = append(c.funcs, fn) }
}

// WithSignals overrides the signals that trigger shutdown (SIGINT and SIGTERM by default).
func WithSignals(sig ...os.Signal) ShutdownOption {
	if len(sig) == 0 {
		panic("WithSignals: no signals")
	}
	return func(c *shutdownConfig) { c.signals = sig }
}

// WithSignalNotifier replaces signal.Notify and signal.Stop.
func WithSignalNotifier(notify func(c chan<- os.Signal, sig ...os.Signal), stop func(c chan<- os.Signal)) ShutdownOption {
	if notify == nil || stop == nil {
		panic("WithSignalNotifier: nil func")
	}
	return func(c *shutdownConfig) {
		c.notify = notify
		c.stop = stop
	}
}

// WithExitFunc replaces os.Exit.
func WithExitFunc(fn func(code int)) ShutdownOption {
	if fn == nil {
		panic("WithExitFunc: nil func")
	}
	return func(c *shutdownConfig) { c.exit = fn }
}

// ShutdownHook disconnects the manager when the process receives a termination signal.
type ShutdownHook struct {
	m    *Manager
	cfg  *shutdownConfig
	sig  chan os.Signal
	quit chan struct{}
	done chan struct{}
}

// RegisterShutdownHook subscribes to termination signals for m. On the first
// signal it runs the shutdown funcs, disconnects m and exits the process with
// code 0. Failures are logged and do not change the exit code.
// It returns ErrShutdownHookRegistered if a hook already exists for m.
func RegisterShutdownHook(m *Manager, opts ...ShutdownOption) (*ShutdownHook, error) {
	if !m.hookRegistered.CompareAndSwap(false, true) {
		return nil, ErrShutdownHookRegistered
	}

	cfg := &shutdownConfig{
		log:     discardLogger(),
		timeout: defaultShutdownTimeout,
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		notify:  signal.Notify,
		stop:    signal.Stop,
		exit:    os.Exit,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	h := &ShutdownHook{
		m:    m,
		cfg:  cfg,
		sig:  make(chan os.Signal, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	cfg.notify(h.sig, cfg.signals...)
	go h.wait()
	return h, nil
}

// Wait blocks until the hook has finished its shutdown work or was stopped.
func (h *ShutdownHook) Wait() {
	<-h.done
}

// Stop unsubscribes from signals without disconnecting.
func (h *ShutdownHook) Stop() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

func (h *ShutdownHook) wait() {
	select {
	case s := <-h.sig:
		h.cfg.stop(h.sig)
		h.shutdown(s)
		close(h.done)
		h.cfg.exit(0)
	case <-h.quit:
		h.cfg.stop(h.sig)
		close(h.done)
	}
}

func (h *ShutdownHook) shutdown(s os.Signal) {
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			h.cfg.log.ErrorContext(ctx, "Shutdown panicked", logger.Component(component), logger.Error(fmt.Errorf("panic: %v", r)))
		}
	}()

	h.cfg.log.InfoContext(ctx, "Shutdown signal received", logger.Component(component), logger.Signal(s.String()))

	for _, fn := range h.cfg.funcs {
		if err := fn(ctx); err != nil {
			h.cfg.log.ErrorContext(ctx, "Shutdown func failed", logger.Component(component), logger.Error(err))
		}
	}
	if err := h.m.Disconnect(ctx); err != nil {
		h.cfg.log.ErrorContext(ctx, "Failed to disconnect mongo on shutdown", logger.Component(component), logger.Error(err))
		return
	}
	h.cfg.log.InfoContext(ctx, "Shutdown complete", logger.Component(component))
}
