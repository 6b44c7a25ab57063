package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/amp-backoff/interval"
	"github.com/google/uuid"
)

// Action is what the host should do after a failure.
type Action int

const (
	// ActionRetry means wait Decision.Delay, then invoke the operation again.
	ActionRetry Action = iota
	// ActionGiveUp means stop and surface Decision.Err.
	ActionGiveUp
)

func (a Action) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionGiveUp:
		return "give_up"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Reason explains a give-up.
type Reason string

const (
	// ReasonNone is the Reason of a retry decision.
	ReasonNone Reason = ""
	// ReasonRejected means the filter rejected the failure or it was marked with Abort.
	ReasonRejected Reason = "rejected"
	// ReasonExhausted means the attempt limit was reached.
	ReasonExhausted Reason = "exhausted"
	// ReasonElapsed means the next delay would overrun the elapsed-time limit.
	ReasonElapsed Reason = "elapsed"
	// ReasonStopped means the algorithm returned interval.ErrStop.
	ReasonStopped Reason = "stopped"
)

// Decision is the outcome of one failure.
type Decision struct {
	Action Action
	// Delay to wait before the next invocation. Zero on give-up.
	Delay time.Duration
	// Attempt is the 1-based number of the retry this decision schedules or,
	// on give-up, the number of retries already made.
	Attempt int
	// Err is the failure to surface on give-up, exactly as the operation
	// returned it (minus any Abort marker).
	Err    error
	Reason Reason
}

func (d Decision) Retry() bool {
	return d.Action == ActionRetry
}

func (d Decision) GiveUp() bool {
	return d.Action == ActionGiveUp
}

// Event describes a retry or give-up to a Hook.
type Event struct {
	// Sequence identifies the Coordinator that produced the event.
	Sequence uuid.UUID
	Policy   string
	Attempt  int
	Delay    time.Duration
	Err      error
	Reason   Reason
	// Elapsed is the sum of the delays scheduled so far, including this one.
	Elapsed time.Duration
}

// Hook observes a sequence. Hooks run synchronously inside OnFailure; a
// panic in a hook is not recovered.
type Hook func(ctx context.Context, event Event)

// HookSet bundles the retry and give-up hooks of one concern so it can be
// installed with WithHooks.
type HookSet struct {
	OnRetry  Hook
	OnGiveUp Hook
}

// Coordinator decides, failure by failure, whether one retry sequence goes
// on. It is the only stateful part of the package. A Coordinator must see
// the failures of a single sequence, one at a time; it is not safe for
// concurrent use.
type Coordinator struct {
	policy     *Policy
	id         uuid.UUID
	attempt    int
	elapsed    time.Duration
	terminated bool
}

// ID identifies the sequence in Events.
func (c *Coordinator) ID() uuid.UUID {
	return c.id
}

// Attempts returns the number of retries decided so far.
func (c *Coordinator) Attempts() int {
	return c.attempt
}

// Elapsed returns the total of all delays decided so far.
func (c *Coordinator) Elapsed() time.Duration {
	return c.elapsed
}

// Terminated reports whether the Coordinator has given up.
func (c *Coordinator) Terminated() bool {
	return c.terminated
}

// OnFailure records a failure of the operation and returns what to do next.
//
// A failure marked with Abort, or one the filter rejects, gives up at once
// without calling any hook. A failure that would exceed the attempt limit or
// the elapsed-time limit runs the give-up hooks and gives up, as does an
// algorithm returning interval.ErrStop. Any other failure runs the retry
// hooks and is retried after the algorithm's delay for the next attempt.
//
// The error result is reserved for misuse and broken configuration: calling
// again after a give-up (ErrSequenceTerminated) or an algorithm that fails
// (ErrInvalidDelay). A nil err is treated as a failure like any other.
func (c *Coordinator) OnFailure(ctx context.Context, err error) (Decision, error) {
	if c.terminated {
		return Decision{}, ErrSequenceTerminated
	}

	if cause, aborted := unwrapAbort(err); aborted || !c.policy.filter(err) {
		return c.giveUp(cause, ReasonRejected), nil
	}

	next := c.attempt + 1

	if !c.policy.unlimited && next > c.policy.maxAttempts {
		return c.notifyGiveUp(ctx, err, ReasonExhausted), nil
	}

	delay, derr := c.policy.algorithm.Delay(next)
	if errors.Is(derr, interval.ErrStop) {
		return c.notifyGiveUp(ctx, err, ReasonStopped), nil
	}

	if derr != nil {
		return Decision{}, fmt.Errorf("%w: attempt %d: %w", ErrInvalidDelay, next, derr)
	}

	if delay < 0 {
		return Decision{}, fmt.Errorf("%w: attempt %d: negative delay %s", ErrInvalidDelay, next, delay)
	}

	if c.policy.maxElapsed > 0 && c.elapsed+delay > c.policy.maxElapsed {
		return c.notifyGiveUp(ctx, err, ReasonElapsed), nil
	}

	c.attempt = next
	c.elapsed += delay

	c.run(ctx, c.policy.onRetry, Event{
		Sequence: c.id,
		Policy:   c.policy.name,
		Attempt:  c.attempt,
		Delay:    delay,
		Err:      err,
		Elapsed:  c.elapsed,
	})

	return Decision{
		Action:  ActionRetry,
		Delay:   delay,
		Attempt: c.attempt,
	}, nil
}

func (c *Coordinator) notifyGiveUp(ctx context.Context, err error, reason Reason) Decision {
	decision := c.giveUp(err, reason)

	c.run(ctx, c.policy.onGiveUp, Event{
		Sequence: c.id,
		Policy:   c.policy.name,
		Attempt:  c.attempt,
		Err:      err,
		Reason:   reason,
		Elapsed:  c.elapsed,
	})

	return decision
}

func (c *Coordinator) giveUp(err error, reason Reason) Decision {
	c.terminated = true

	return Decision{
		Action:  ActionGiveUp,
		Attempt: c.attempt,
		Err:     err,
		Reason:  reason,
	}
}

func (c *Coordinator) run(ctx context.Context, hooks []Hook, event Event) {
	for _, hook := range hooks {
		hook(ctx, event)
	}
}
