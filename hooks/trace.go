package hooks

import (
	"context"

	"github.com/amp-labs/amp-backoff/retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func spanAttrs(event retry.Event) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("retry.policy", event.Policy),
		attribute.String("retry.sequence", event.Sequence.String()),
		attribute.Int("retry.attempt", event.Attempt),
		attribute.Int64("retry.delay_ms", event.Delay.Milliseconds()),
		attribute.Int64("retry.elapsed_ms", event.Elapsed.Milliseconds()),
	}
}

// Trace records retries as "retry" events on the span found in the context.
// A give-up adds a "give_up" event, records the error and marks the span as
// failed. Without a recording span the hooks do nothing.
func Trace() retry.HookSet {
	return retry.HookSet{
		OnRetry: func(ctx context.Context, event retry.Event) {
			span := trace.SpanFromContext(ctx)
			if !span.IsRecording() {
				return
			}

			kvs := spanAttrs(event)
			if event.Err != nil {
				kvs = append(kvs, attribute.String("retry.error", event.Err.Error()))
			}

			span.AddEvent("retry", trace.WithAttributes(kvs...))
		},
		OnGiveUp: func(ctx context.Context, event retry.Event) {
			span := trace.SpanFromContext(ctx)
			if !span.IsRecording() {
				return
			}

			kvs := append(spanAttrs(event), attribute.String("retry.reason", string(event.Reason)))

			span.AddEvent("give_up", trace.WithAttributes(kvs...))

			if event.Err != nil {
				span.RecordError(event.Err)
				span.SetStatus(codes.Error, event.Err.Error())
			} else {
				span.SetStatus(codes.Error, "retry gave up: "+string(event.Reason))
			}
		},
	}
}
