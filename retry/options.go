package retry

import (
	"time"

	"github.com/amp-labs/amp-backoff/interval"
)

// Option configures a Policy. Options follow the functional options pattern;
// they are applied once by NewPolicy and the result never changes.
type Option func(*options)

// options holds the mutable configuration while a Policy is being built.
type options struct {
	name        string
	algorithm   interval.Algorithm
	maxAttempts int
	unlimited   bool
	maxElapsed  time.Duration
	filter      Predicate
	onRetry     []Hook
	onGiveUp    []Hook
	scheduler   Scheduler
	timeout     time.Duration
}

// WithName labels the policy. The name is carried in every Event, so it
// shows up in logs, metrics and traces.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithAlgorithm sets the algorithm that computes the delay before each retry.
//
// Example:
//
//	policy, err := retry.NewPolicy(retry.WithAlgorithm(
//	    interval.Must(interval.NewFixed(interval.FixedConfig{Interval: 2 * time.Second})),
//	))
func WithAlgorithm(a interval.Algorithm) Option {
	return func(o *options) {
		o.algorithm = a
	}
}

// WithMaxAttempts sets how many times a failing operation is retried. Zero
// means the first failure gives up; negative values are rejected.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
		o.unlimited = false
	}
}

// WithUnlimitedAttempts removes the attempt limit. Combine it with
// WithMaxElapsed or a filter unless retrying forever is really intended.
func WithUnlimitedAttempts() Option {
	return func(o *options) {
		o.unlimited = true
	}
}

// WithMaxElapsed gives up once the sum of all delays in a sequence would
// exceed d. Zero means no limit.
func WithMaxElapsed(d time.Duration) Option {
	return func(o *options) {
		o.maxElapsed = d
	}
}

// WithFilter sets the predicate deciding which failures are retried. A
// rejected failure gives up immediately, without calling any hook.
func WithFilter(p Predicate) Option {
	return func(o *options) {
		o.filter = p
	}
}

// WithOnRetry adds a hook called before every retry. Hooks run in the order
// they were added.
func WithOnRetry(hooks ...Hook) Option {
	return func(o *options) {
		o.onRetry = append(o.onRetry, hooks...)
	}
}

// WithOnGiveUp adds a hook called once when the retry budget runs out.
func WithOnGiveUp(hooks ...Hook) Option {
	return func(o *options) {
		o.onGiveUp = append(o.onGiveUp, hooks...)
	}
}

// WithHooks adds each of the given hook sets, e.g. hooks.Log().
func WithHooks(sets ...HookSet) Option {
	return func(o *options) {
		for _, set := range sets {
			if set.OnRetry != nil {
				o.onRetry = append(o.onRetry, set.OnRetry)
			}

			if set.OnGiveUp != nil {
				o.onGiveUp = append(o.onGiveUp, set.OnGiveUp)
			}
		}
	}
}

// WithScheduler sets how Runner and When wait out a delay. Tests use it to
// avoid sleeping.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithTimeout bounds each individual invocation made by a Runner. An
// invocation that overruns fails with context.DeadlineExceeded, which is
// then handled like any other failure. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}
