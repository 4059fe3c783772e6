package dispatcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics счётчики и гистограммы вызовов по стадиям.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики диспетчера в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sinistros",
			Name:      "dispatch_total",
			Help:      "Вызовы действий по стадиям и исходам.",
		}, []string{"action", "stage", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sinistros",
			Name:      "dispatch_duration_seconds",
			Help:      "Длительность стадии вызова действия.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action", "stage"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

func (m *Metrics) observe(action Action, stage string, outcome Outcome, started time.Time) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(string(action), stage, outcome.String()).Inc()
	m.duration.WithLabelValues(string(action), stage).Observe(time.Since(started).Seconds())
}
