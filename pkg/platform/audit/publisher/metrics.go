package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Emitted         *prometheus.CounterVec
	Sampled         prometheus.Counter
	Dropped         *prometheus.CounterVec
	PersistFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Emitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclock_audit_events_emitted_total",
			Help: "Audit events accepted by the publisher, by category",
		}, []string{"category"}),
		Sampled: f.NewCounter(prometheus.CounterOpts{
			Name: "geoclock_audit_events_sampled_total",
			Help: "Operations audit events skipped by sampling",
		}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclock_audit_events_dropped_total",
			Help: "Audit events the publisher could not accept",
		}, []string{"reason"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "geoclock_audit_persist_failures_total",
			Help: "Audit events the store failed to persist",
		}),
	}
}

func (m *Metrics) incEmitted(category string) {
	if m == nil {
		return
	}
	m.Emitted.WithLabelValues(category).Inc()
}

func (m *Metrics) incSampled() {
	if m == nil {
		return
	}
	m.Sampled.Inc()
}

func (m *Metrics) incDropped(reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) incPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}
