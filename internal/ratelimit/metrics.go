package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Limited *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Limited: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geoclock_ratelimit_limited_total",
			Help: "Clock attempts rejected by the per-driver rate limit",
		}, []string{"action"}),
	}
}

func (m *Metrics) incLimited(action string) {
	if m == nil {
		return
	}
	m.Limited.WithLabelValues(action).Inc()
}
