package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the clock orchestrator.
type Metrics struct {
	Decisions        *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
	ActionLatency    *prometheus.HistogramVec
	NotifyFailures   prometheus.Counter
	GeofenceDistance *prometheus.HistogramVec
}

// New creates and registers orchestrator metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclock_attendance_decisions_total",
			Help: "Accepted clock actions by action and attendance status",
		}, []string{"action", "status"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclock_attendance_rejections_total",
			Help: "Rejected clock actions by action and error kind",
		}, []string{"action", "kind"}),
		ActionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geoclock_attendance_action_duration_seconds",
			Help:    "End-to-end duration of clock actions including location resolution",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		NotifyFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "geoclock_attendance_notify_failures_total",
			Help: "Late/early notifications that could not be dispatched",
		}),
		GeofenceDistance: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geoclock_attendance_geofence_distance_meters",
			Help:    "Distance from the evaluated warehouse at clock time",
			Buckets: []float64{25, 50, 100, 200, 300, 500, 750, 1000, 2000, 5000},
		}, []string{"action", "within_range"}),
	}
}

func (m *Metrics) IncDecision(action, status string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(action, status).Inc()
}

func (m *Metrics) IncRejection(action, kind string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(action, kind).Inc()
}

func (m *Metrics) ObserveLatency(action string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ActionLatency.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *Metrics) IncNotifyFailure() {
	if m == nil {
		return
	}
	m.NotifyFailures.Inc()
}

func (m *Metrics) ObserveDistance(action string, meters float64, within bool) {
	if m == nil {
		return
	}
	label := "false"
	if within {
		label = "true"
	}
	m.GeofenceDistance.WithLabelValues(action, label).Observe(meters)
}
