// Package retry decides when a failing operation is retried and when it
// gives up, and runs such operations.
//
// A Policy is immutable configuration: the interval.Algorithm computing the
// delays, the attempt limit, a filter for retryable failures and hooks that
// observe the sequence. Each run of an operation gets its own Coordinator,
// which turns failures into Decisions:
//
//	policy, err := retry.NewPolicy(
//	    retry.WithName("upload"),
//	    retry.WithMaxAttempts(5),
//	    retry.WithAlgorithm(interval.Must(interval.NewExponential(interval.ExponentialConfig{
//	        Interval:    time.Second,
//	        Multiplier:  2,
//	        MaxInterval: 5 * time.Second,
//	    }))),
//	    retry.WithFilter(retry.Is(io.ErrUnexpectedEOF)),
//	)
//
// The Coordinator never sleeps. Runner, When and Submit are the adapters
// that do the waiting:
//
//	err := retry.NewRunner(policy).Do(ctx, func(ctx context.Context) error {
//	    return upload(ctx)
//	})
package retry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Runner executes operations with retry logic.
type Runner interface {
	Do(ctx context.Context, f func(ctx context.Context) error) error
}

// ValueRunner executes operations that return a value with retry logic.
type ValueRunner[T any] interface {
	Do(ctx context.Context, f func(ctx context.Context) (T, error)) (T, error)
}

// NewRunner creates a Runner that retries according to p. Every call to Do
// starts a fresh sequence with its own Coordinator, so one Runner may be
// used from many goroutines.
//
// Do returns:
//   - nil if the operation succeeds
//   - ctx.Err() if the context ends, including while waiting between attempts
//   - the operation's last error, unwrapped from any Abort marker, on give-up
//   - an error wrapping ErrInvalidDelay if the algorithm fails
func NewRunner(p *Policy) Runner {
	return &runnerImpl{policy: p}
}

// NewValueRunner is NewRunner for operations that return a value.
func NewValueRunner[T any](p *Policy) ValueRunner[T] {
	return &valueRunnerImpl[T]{policy: p}
}

type runnerImpl struct {
	policy *Policy
}

func (r *runnerImpl) Do(ctx context.Context, f func(ctx context.Context) error) error {
	return do(ctx, r.policy, f)
}

type valueRunnerImpl[T any] struct {
	policy *Policy
}

// Do returns the zero value of T together with any error.
func (v valueRunnerImpl[T]) Do(ctx context.Context, f func(ctx context.Context) (T, error)) (T, error) {
	var out T

	err := do(ctx, v.policy, func(ctx context.Context) error {
		var err error

		out, err = f(ctx)

		return err
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return out, nil
}

// do is the host loop: invoke, hand failures to the Coordinator, wait, repeat.
func do(ctx context.Context, policy *Policy, operation func(ctx context.Context) error) error {
	coord := policy.NewCoordinator()
	ctx = withSequence(ctx, coord.ID())

	var mut sync.Mutex

	running := atomic.NewBool(true)
	defer running.Store(false)

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		ctx := withAttempt(ctx, attempt)

		// A fresh channel per attempt keeps a late result from an abandoned
		// attempt out of the next one. The mutex keeps at most one invocation
		// running at a time, even after a timeout.
		errChan := make(chan error, 1)

		go func(ctx context.Context) {
			defer close(errChan)

			if policy.timeout != 0 {
				errChan <- callWithTimeout(ctx, operation, policy.timeout, &mut, running)
			} else {
				mut.Lock()
				defer mut.Unlock()

				if !running.Load() {
					return
				}

				errChan <- operation(ctx)
			}
		}(ctx)

		var err error

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err = <-errChan:
			if err == nil {
				return nil
			}
		}

		decision, derr := coord.OnFailure(ctx, err)
		if derr != nil {
			return derr
		}

		if decision.GiveUp() {
			return decision.Err
		}

		if err := policy.scheduler.Wait(ctx, decision.Delay); err != nil {
			return err
		}
	}
}

// callWithTimeout wraps a function call with a timeout. If the function does not complete
// within the specified timeout, it returns context.DeadlineExceeded.
func callWithTimeout(
	ctx context.Context,
	callback func(context.Context) error,
	timeout time.Duration,
	mut *sync.Mutex,
	running *atomic.Bool,
) error {
	// Brief lock/unlock provides a memory barrier to ensure visibility of running flag
	mut.Lock()
	mut.Unlock() //nolint:staticcheck

	if !running.Load() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)

	go func(ctx context.Context) {
		defer close(errChan)

		mut.Lock()
		defer mut.Unlock()

		if !running.Load() {
			return
		}

		errChan <- callback(ctx)
	}(ctx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Do runs f under a Policy built from opts.
//
// Example:
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//	    return makeAPICall()
//	}, retry.WithMaxAttempts(5))
func Do(ctx context.Context, f func(ctx context.Context) error, opts ...Option) error {
	policy, err := NewPolicy(opts...)
	if err != nil {
		return err
	}

	return NewRunner(policy).Do(ctx, f)
}

// DoValue is Do for operations that return a value.
func DoValue[T any](ctx context.Context, f func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	policy, err := NewPolicy(opts...)
	if err != nil {
		var zero T

		return zero, err
	}

	return NewValueRunner[T](policy).Do(ctx, f)
}
