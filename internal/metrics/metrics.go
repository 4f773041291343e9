package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/worker"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	EmailsSent         *prometheus.CounterVec
	EmailsFailed       *prometheus.CounterVec
	DrainDuration      prometheus.Histogram
	DrainBatchSize     prometheus.Histogram
	RateLimitDecisions *prometheus.CounterVec
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of emails accepted by the delivery provider.",
		}, []string{"type"}),

		EmailsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emails_failed_total",
			Help: "Total number of emails the delivery provider rejected or that errored.",
		}, []string{"type"}),

		DrainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "drain_cycle_seconds",
			Help:    "Wall-clock duration of one claim-dispatch-finalize cycle.",
			Buckets: prometheus.DefBuckets,
		}),

		DrainBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "drain_batch_claimed",
			Help:    "Number of messages claimed per drain cycle.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		}),

		RateLimitDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_decisions_total",
			Help: "Guard decisions per endpoint: allowed, rejected, or degraded.",
		}, []string{"endpoint", "outcome"}),
	}

	reg.MustRegister(
		m.EmailsSent,
		m.EmailsFailed,
		m.DrainDuration,
		m.DrainBatchSize,
		m.RateLimitDecisions,
	)

	return m
}

// DrainerHooks returns the metric callbacks expected by worker.MetricHooks.
// Centralises the prometheus observation calls so the worker package stays
// metrics-agnostic.
func (m *Metrics) DrainerHooks() worker.MetricHooks {
	return worker.MetricHooks{
		OnSent: func(t domain.MessageType) {
			m.EmailsSent.WithLabelValues(string(t)).Inc()
		},
		OnFailed: func(t domain.MessageType) {
			m.EmailsFailed.WithLabelValues(string(t)).Inc()
		},
		OnDrain: func(r worker.Report, elapsed time.Duration) {
			m.DrainDuration.Observe(elapsed.Seconds())
			m.DrainBatchSize.Observe(float64(r.Claimed))
		},
	}
}

// GuardHook returns the decision callback for one guarded endpoint.
func (m *Metrics) GuardHook(endpoint string) func(outcome string) {
	return func(outcome string) {
		m.RateLimitDecisions.WithLabelValues(endpoint, outcome).Inc()
	}
}
