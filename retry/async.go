package retry

import (
	"context"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-backoff/envutil"
	"github.com/amp-labs/amp-backoff/logger"
)

const defaultWorkerCount = 10

// Submit runs a whole retry sequence of f on pool, waits between attempts
// included. The returned task fails with whatever r.Do returns.
//
// Example:
//
//	pool := pond.NewPool(8)
//	task := retry.Submit(ctx, pool, retry.NewRunner(policy), sendWebhook)
//	err := task.Wait()
func Submit(ctx context.Context, pool pond.Pool, r Runner, f func(ctx context.Context) error) pond.Task { //nolint:ireturn
	return pool.SubmitErr(func() error {
		return r.Do(ctx, f)
	})
}

// SubmitValue is Submit for operations that return a value.
func SubmitValue[T any](
	ctx context.Context,
	pool pond.ResultPool[T],
	r ValueRunner[T],
	f func(ctx context.Context) (T, error),
) pond.Result[T] { //nolint:ireturn
	return pool.SubmitErr(func() (T, error) {
		return r.Do(ctx, f)
	})
}

var background struct { //nolint:gochecknoglobals
	once sync.Once
	pool pond.Pool
}

// workerCount reads RETRY_WORKER_COUNT. Zero lets pond run tasks without a
// concurrency limit; negative or malformed values fall back to the default.
func workerCount(ctx context.Context) int {
	rdr := envutil.Int[int](ctx, "RETRY_WORKER_COUNT",
		envutil.Default(defaultWorkerCount),
		envutil.Validate(func(n int) error {
			if n < 0 {
				return fmt.Errorf("%w: worker count must be >= 0, got %d", ErrInvalidArgument, n)
			}

			return nil
		}))

	count, err := rdr.Value()
	if err != nil {
		logger.Get(ctx).Warn("Invalid background retry pool size, using default",
			"error", err, "count", defaultWorkerCount)

		return defaultWorkerCount
	}

	return count
}

// backgroundPool is created on first use and sized by RETRY_WORKER_COUNT.
func backgroundPool(ctx context.Context) pond.Pool { //nolint:ireturn
	background.once.Do(func() {
		count := workerCount(ctx)

		logger.Get(ctx).Debug("Initializing background retry pool", "count", count)

		background.pool = pond.NewPool(count)
	})

	return background.pool
}

// Background is Submit on a process-wide pool shared by all callers.
func Background(ctx context.Context, r Runner, f func(ctx context.Context) error) pond.Task { //nolint:ireturn
	return Submit(ctx, backgroundPool(ctx), r, f)
}
