package hooks

import (
	"context"

	"github.com/amp-labs/amp-backoff/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts retries and give-ups per policy name.
//
// Metric names:
//   - retry_attempts_total{policy}
//   - retry_give_ups_total{policy, reason}
//   - retry_delay_seconds{policy}
type Metrics struct {
	attempts *prometheus.CounterVec
	giveUps  *prometheus.CounterVec
	delays   *prometheus.HistogramVec
}

// NewMetrics registers the retry metrics with reg. Like promauto, it panics
// if they are already registered there; create one Metrics per registry and
// share it between policies.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "The total number of retries scheduled",
		}, []string{"policy"}),

		giveUps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "retry_give_ups_total",
			Help: "The total number of retry sequences that gave up",
		}, []string{"policy", "reason"}),

		delays: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "retry_delay_seconds",
			Help:    "The delay scheduled before each retry",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), //nolint:mnd
		}, []string{"policy"}),
	}
}

// Hooks returns the hooks that feed m.
func (m *Metrics) Hooks() retry.HookSet {
	return retry.HookSet{
		OnRetry: func(_ context.Context, event retry.Event) {
			m.attempts.WithLabelValues(event.Policy).Inc()
			m.delays.WithLabelValues(event.Policy).Observe(event.Delay.Seconds())
		},
		OnGiveUp: func(_ context.Context, event retry.Event) {
			m.giveUps.WithLabelValues(event.Policy, string(event.Reason)).Inc()
		},
	}
}
