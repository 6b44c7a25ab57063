package retry

import (
	"context"
	"time"
)

// Scheduler waits out a delay on behalf of Runner and When. Wait returns
// early with ctx.Err() if the context ends first.
type Scheduler interface {
	Wait(ctx context.Context, d time.Duration) error
}

// SchedulerFunc adapts a function to a Scheduler.
type SchedulerFunc func(ctx context.Context, d time.Duration) error

func (f SchedulerFunc) Wait(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerScheduler waits on a time.Timer. It is the default.
type TimerScheduler struct{}

func (TimerScheduler) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
