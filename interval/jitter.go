package interval

import (
	"fmt"
	"math"
	"time"
)

// Jitter is the share of a delay that is replaced by randomness:
//   - 0.0: no randomness
//   - 0.5: half fixed, half random (EqualJitter)
//   - 1.0: uniformly random between 0 and the delay (FullJitter)
//   - negative: disabled (NoJitter)
type Jitter float64

const (
	// EqualJitter yields delay/2 + random(0, delay/2).
	EqualJitter Jitter = 0.5
	// FullJitter yields random(0, delay).
	FullJitter Jitter = 1.0
	// NoJitter passes the delay through unchanged.
	NoJitter Jitter = -1.0
)

// apply blends a random value in [0, d] with d itself.
func (j Jitter) apply(src Source, d time.Duration) time.Duration {
	if j <= 0 || d <= 0 {
		return d
	}

	r := orDefault(src).Float64() * float64(d)
	if j < 1 {
		r = float64(j)*r + float64(1-j)*float64(d)
	}

	return min(time.Duration(r), d)
}

type jittered struct {
	inner  Algorithm
	jitter Jitter
	src    Source
}

// Jittered spreads the delays of another algorithm downwards by j. The
// result never exceeds the inner algorithm's delay, so its cap still holds.
// A nil src means DefaultSource.
func Jittered(inner Algorithm, j Jitter, src Source) (Algorithm, error) { //nolint:ireturn
	if inner == nil {
		return nil, fmt.Errorf("%w: jittered algorithm needs an inner algorithm", ErrInvalidArgument)
	}

	if j > FullJitter || math.IsNaN(float64(j)) {
		return nil, fmt.Errorf("%w: jitter must be <= 1, got %v", ErrInvalidArgument, float64(j))
	}

	return jittered{inner: inner, jitter: j, src: orDefault(src)}, nil
}

func (j jittered) Delay(attempt int) (time.Duration, error) {
	d, err := j.inner.Delay(attempt)
	if err != nil {
		return 0, err
	}

	return j.jitter.apply(j.src, d), nil
}
