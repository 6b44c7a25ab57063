// Package interval computes the delay to wait before a retry attempt.
//
// Every strategy implements Algorithm, a pure mapping from a 1-based attempt
// number to a non-negative delay:
//
//	exp := interval.Must(interval.NewExponential(interval.ExponentialConfig{
//	    Interval:    time.Second,
//	    Multiplier:  2,
//	    MaxInterval: 5 * time.Second,
//	}))
//	// Delays: 1s, 2s, 4s, 5s, 5s, ...
//
// Algorithms hold no mutable state and may be shared by any number of
// goroutines. Configuration is validated when the algorithm is built, never
// on first use.
package interval

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidArgument is returned for bad configuration and for attempt
	// numbers below 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStop is returned by an Algorithm that wants the sequence to end.
	// The retry Coordinator turns it into a give-up instead of an error.
	ErrStop = errors.New("stop retrying")
)

// Algorithm maps an attempt number to the delay before that attempt.
type Algorithm interface {
	// Delay returns the delay for the given attempt. The first retry is
	// attempt 1; anything lower is an ErrInvalidArgument. An error wrapping
	// ErrStop ends the sequence.
	Delay(attempt int) (time.Duration, error)
}

// Func adapts a plain function to an Algorithm. The function is only called
// with attempt >= 1; negative results are clamped to zero.
type Func func(attempt int) time.Duration

func (f Func) Delay(attempt int) (time.Duration, error) {
	if err := checkAttempt(attempt); err != nil {
		return 0, err
	}

	return max(f(attempt), 0), nil
}

// Must panics if err is non-nil. Intended for package-level algorithms
// built from constant configuration.
func Must[A Algorithm](a A, err error) A {
	if err != nil {
		panic(err)
	}

	return a
}

func checkAttempt(attempt int) error {
	if attempt < 1 {
		return fmt.Errorf("%w: attempt must be >= 1, got %d", ErrInvalidArgument, attempt)
	}

	return nil
}

// scaled returns base * multiplier^(attempt-1) capped at limit, computed in
// float space so that overflow saturates at the cap instead of wrapping.
func scaled(base time.Duration, multiplier float64, attempt int, limit time.Duration) float64 {
	if base == 0 {
		return 0
	}

	f := float64(base) * math.Pow(multiplier, float64(attempt-1))
	if math.IsNaN(f) || f > float64(limit) {
		return float64(limit)
	}

	return f
}

// clamp converts f to a Duration inside [0, limit].
func clamp(f float64, limit time.Duration) time.Duration {
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= float64(limit):
		return limit
	default:
		return time.Duration(f)
	}
}

func validMultiplier(m float64) bool {
	return m > 0 && !math.IsInf(m, 0)
}
