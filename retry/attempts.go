package retry

import (
	"context"

	"github.com/google/uuid"
)

// ctxKey is the type for context keys used internally to avoid collisions.
type ctxKey string

const (
	attemptKey  ctxKey = "attempt"
	sequenceKey ctxKey = "sequence"
)

func withAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey, attempt)
}

// Attempt returns the retry number of the current invocation: 0 for the
// initial call, n for the n-th retry. Outside a Runner it returns 0.
//
// Example:
//
//	err := runner.Do(ctx, func(ctx context.Context) error {
//	    if retry.Attempt(ctx) > 0 {
//	        log.Printf("retry #%d", retry.Attempt(ctx))
//	    }
//	    return makeAPICall()
//	})
func Attempt(ctx context.Context) int {
	attempt, ok := ctx.Value(attemptKey).(int)
	if !ok {
		return 0
	}

	return attempt
}

func withSequence(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sequenceKey, id)
}

// Sequence returns the id of the retry sequence the current invocation
// belongs to, or uuid.Nil outside a Runner. Every Event of that sequence
// carries the same id.
func Sequence(ctx context.Context) uuid.UUID {
	id, ok := ctx.Value(sequenceKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}

	return id
}
