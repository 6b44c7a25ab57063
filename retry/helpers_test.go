package retry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/amp-labs/amp-backoff/interval"
)

var (
	errIO      = errors.New("io failure")      //nolint:gochecknoglobals
	errRuntime = errors.New("runtime failure") //nolint:gochecknoglobals
)

// recorder is a Scheduler that records the delays it was asked to wait
// instead of sleeping.
type recorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recorder) Wait(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.delays = append(r.delays, d)

	return ctx.Err()
}

func (r *recorder) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]time.Duration(nil), r.delays...)
}

// events collects hook invocations.
type events struct {
	mu   sync.Mutex
	list []Event
}

func (e *events) Hook(_ context.Context, event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.list = append(e.list, event)
}

func (e *events) All() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Event(nil), e.list...)
}

func fixed(d time.Duration) interval.Algorithm { //nolint:ireturn
	return interval.Must(interval.NewFixed(interval.FixedConfig{Interval: d}))
}
