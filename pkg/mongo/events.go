package mongo

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/event"
)

// EventType is a connection lifecycle notification raised by the driver.
type EventType string

const (
	EventConnected    EventType = "connected"
	EventError        EventType = "error"
	EventDisconnected EventType = "disconnected"
	EventReconnected  EventType = "reconnected"
)

// Event describes a driver-observed change of connectivity.
type Event struct {
	Type    EventType
	Address string
	Err     error
}

// Listener receives lifecycle events. Manager implements it.
type Listener interface {
	HandleEvent(ctx context.Context, e Event)
}

// EventBridge turns driver heartbeat notifications into lifecycle events.
//
// A server counts as up after a successful heartbeat and down after a failed one.
// The bridge raises connected the first time any server is up, disconnected when
// the last up server goes down, reconnected when one comes back, and error for
// failures observed while everything is already down.
type EventBridge struct {
	listener Listener

	once    sync.Once
	monitor *event.ServerMonitor

	mu      sync.Mutex
	servers map[string]bool
	wasUp   bool
}

// NewEventBridge returns a bridge dispatching to l.
func NewEventBridge(l Listener) *EventBridge {
	return &EventBridge{
		listener: l,
		servers:  make(map[string]bool),
	}
}

// ServerMonitor returns the driver monitor. The same instance is returned on
// every call so handlers are registered once per process.
func (b *EventBridge) ServerMonitor() *event.ServerMonitor {
	b.once.Do(func() {
		b.monitor = &event.ServerMonitor{
			ServerHeartbeatSucceeded: func(e *event.ServerHeartbeatSucceededEvent) {
				b.observe(e.ConnectionID, nil)
			},
			ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
				b.observe(e.ConnectionID, e.Failure)
			},
		}
	})
	return b.monitor
}

// Reset forgets server health. It is called before a fresh client is dialed.
func (b *EventBridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.servers = make(map[string]bool)
	b.wasUp = false
}

// Emit forwards an event to the listener.
func (b *EventBridge) Emit(ctx context.Context, e Event) {
	if b.listener != nil {
		b.listener.HandleEvent(ctx, e)
	}
}

func (b *EventBridge) observe(connectionID string, failure error) {
	addr := serverAddress(connectionID)

	b.mu.Lock()
	wasUp := b.wasUp
	before := b.anyUpLocked()
	b.servers[addr] = failure == nil
	after := b.anyUpLocked()
	if after {
		b.wasUp = true
	}
	b.mu.Unlock()

	var typ EventType
	switch {
	case after && !before && wasUp:
		typ = EventReconnected
	case after && !before:
		typ = EventConnected
	case !after && before:
		typ = EventDisconnected
	case !after && failure != nil:
		typ = EventError
	default:
		return
	}
	b.Emit(context.Background(), Event{Type: typ, Address: addr, Err: failure})
}

func (b *EventBridge) anyUpLocked() bool {
	for _, up := range b.servers {
		if up {
			return true
		}
	}
	return false
}

// serverAddress strips the connection counter from ids like "host:27017[-3]".
func serverAddress(connectionID string) string {
	addr, _, _ := strings.Cut(connectionID, "[")
	return addr
}
