package quota

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for admission control.
type Metrics struct {
	checks   *prometheus.CounterVec
	denials  *prometheus.CounterVec
	failOpen prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics creates admission metrics registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "janus_admission_checks_total",
				Help: "Total number of admission checks performed",
			},
			[]string{"result"},
		),

		denials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "janus_admission_denials_total",
				Help: "Total number of denied requests by quota scope",
			},
			[]string{"scope"},
		),

		failOpen: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "janus_admission_fail_open_total",
				Help: "Total number of requests admitted because the check could not complete",
			},
		),

		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "janus_admission_check_duration_seconds",
				Help:    "Latency of admission checks including store round trips",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordCheck records a completed admission check and its latency.
func (m *Metrics) RecordCheck(d Decision, elapsed time.Duration) {
	if m == nil {
		return
	}

	result := "allowed"
	if !d.Allowed {
		result = "denied"
		m.denials.WithLabelValues(string(d.Scope)).Inc()
	}
	m.checks.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// RecordFailOpen records a request admitted without a completed check.
func (m *Metrics) RecordFailOpen() {
	if m == nil {
		return
	}
	m.failOpen.Inc()
}
