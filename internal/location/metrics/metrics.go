package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for location resolution.
type Metrics struct {
	ProviderAttempts *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	Resolutions      *prometheus.CounterVec
	Superseded       prometheus.Counter
}

// New creates and registers location metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg, which lets tests use a private registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProviderAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclock_location_provider_attempts_total",
			Help: "Location provider attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		ProviderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geoclock_location_provider_duration_seconds",
			Help:    "Time spent in a single location provider attempt",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider"}),
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclock_location_resolutions_total",
			Help: "Completed resolutions by the provider kind that answered (none when all failed)",
		}, []string{"provider_kind"}),
		Superseded: f.NewCounter(prometheus.CounterOpts{
			Name: "geoclock_location_superseded_total",
			Help: "Resolutions cancelled because the same caller started a newer one",
		}),
	}
}

// ObserveAttempt records one provider attempt.
func (m *Metrics) ObserveAttempt(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderAttempts.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// IncResolution counts a finished resolution.
func (m *Metrics) IncResolution(kind string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncSuperseded() {
	if m == nil {
		return
	}
	m.Superseded.Inc()
}
