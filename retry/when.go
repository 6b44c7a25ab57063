package retry

import (
	"context"
	"time"
)

// Signal is what When emits per failure: either permission to resubscribe
// after Delay has passed, or the terminal error.
type Signal struct {
	Attempt int
	Delay   time.Duration
	// Err is the error to surface once Done is set. It may be nil when the
	// operation failed with a nil error.
	Err  error
	Done bool
}

// Terminal reports whether this is the last Signal of the sequence.
func (s Signal) Terminal() bool {
	return s.Done
}

// When turns a stream of failures into a stream of retry signals, for hosts
// that drive re-invocation themselves. For each failure read from failures,
// When consults a fresh Coordinator, waits the decided delay with the
// policy's Scheduler and emits a Signal. On give-up it emits one terminal
// Signal carrying the error and closes the output.
//
// The output is also closed when failures is closed or ctx ends. The
// goroutine behind When exits in all three cases. Failures must not be sent
// before the previous Signal was received.
func (p *Policy) When(ctx context.Context, failures <-chan error) <-chan Signal {
	out := make(chan Signal)

	go func() {
		defer close(out)

		coord := p.NewCoordinator()

		emit := func(s Signal) bool {
			select {
			case out <- s:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			var (
				failure error
				ok      bool
			)

			select {
			case <-ctx.Done():
				return
			case failure, ok = <-failures:
				if !ok {
					return
				}
			}

			decision, err := coord.OnFailure(ctx, failure)
			if err != nil {
				emit(Signal{Err: err, Done: true})

				return
			}

			if decision.GiveUp() {
				emit(Signal{Attempt: decision.Attempt, Err: decision.Err, Done: true})

				return
			}

			if err := p.scheduler.Wait(ctx, decision.Delay); err != nil {
				return
			}

			if !emit(Signal{Attempt: decision.Attempt, Delay: decision.Delay}) {
				return
			}
		}
	}()

	return out
}
