// Package hooks provides ready-made retry hooks that report a retry
// sequence to the logger, to Prometheus and to OpenTelemetry. Install them
// with retry.WithHooks:
//
//	metrics := hooks.NewMetrics(prometheus.DefaultRegisterer)
//
//	policy, err := retry.NewPolicy(
//	    retry.WithName("upload"),
//	    retry.WithHooks(hooks.Log(), metrics.Hooks(), hooks.Trace()),
//	)
package hooks

import (
	"log/slog"

	"github.com/amp-labs/amp-backoff/retry"
)

func attrs(event retry.Event) []any {
	out := []any{
		slog.String("policy", event.Policy),
		slog.String("sequence", event.Sequence.String()),
		slog.Int("attempt", event.Attempt),
		slog.Duration("elapsed", event.Elapsed),
	}

	if event.Delay > 0 {
		out = append(out, slog.Duration("delay", event.Delay))
	}

	if event.Reason != retry.ReasonNone {
		out = append(out, slog.String("reason", string(event.Reason)))
	}

	if event.Err != nil {
		out = append(out, slog.Any("error", event.Err))
	}

	return out
}
