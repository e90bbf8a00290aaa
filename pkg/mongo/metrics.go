package mongo

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "prodigypm"

// Metrics exports connection lifecycle counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	state         *prometheus.GaugeVec
	attempts      *prometheus.CounterVec
	events        *prometheus.CounterVec
	indexFailures *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "mongo",
			Name:      "connection_state",
			Help:      "Current connection state, 1 for the active state and 0 otherwise.",
		}, []string{"state"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "mongo",
			Name:      "connect_attempts_total",
			Help:      "Connection attempts by result.",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "mongo",
			Name:      "driver_events_total",
			Help:      "Lifecycle events raised by the driver.",
		}, []string{"event"}),
		indexFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "mongo",
			Name:      "index_failures_total",
			Help:      "Index provisioning failures by collection.",
		}, []string{"collection"}),
	}

	for _, c := range []prometheus.Collector{m.state, m.attempts, m.events, m.indexFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	m.setState(StateDisconnected)
	return m, nil
}

func (m *Metrics) setState(s State) {
	if m == nil {
		return
	}
	for _, st := range states {
		v := 0.0
		if st == s {
			v = 1
		}
		m.state.WithLabelValues(string(st)).Set(v)
	}
}

func (m *Metrics) attempt(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.attempts.WithLabelValues(result).Inc()
}

func (m *Metrics) event(t EventType) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) indexFailure(err error) {
	if m == nil {
		return
	}
	collection := "unknown"
	var ierr *IndexCreationError
	if errors.As(err, &ierr) {
		collection = ierr.Spec.Collection
	}
	m.indexFailures.WithLabelValues(collection).Inc()
}

// MetricCollectors exposes the underlying vectors, mainly for tests and dashboards.
type MetricCollectors struct {
	State         *prometheus.GaugeVec
	Attempts      *prometheus.CounterVec
	Events        *prometheus.CounterVec
	IndexFailures *prometheus.CounterVec
}

func (m *Metrics) Collectors() MetricCollectors {
	return MetricCollectors{
		State:         m.state,
		Attempts:      m.attempts,
		Events:        m.events,
		IndexFailures: m.indexFailures,
	}
}
