package interval

import (
	"time"

	amperrors "github.com/amp-labs/amp-backoff/errors"
)

const (
	DefaultLowInterval    = 500 * time.Millisecond
	DefaultHighInterval   = time.Second
	DefaultLowMultiplier  = 1.0
	DefaultHighMultiplier = 3.0
)

// RandomIntervalConfig configures a RandomInterval algorithm.
type RandomIntervalConfig struct {
	LowInterval    time.Duration
	HighInterval   time.Duration
	LowMultiplier  float64
	HighMultiplier float64
	MaxInterval    time.Duration
	// Rand is the randomness used to pick the delay. Nil means DefaultSource.
	Rand Source
}

func DefaultRandomIntervalConfig() RandomIntervalConfig {
	return RandomIntervalConfig{
		LowInterval:    DefaultLowInterval,
		HighInterval:   DefaultHighInterval,
		LowMultiplier:  DefaultLowMultiplier,
		HighMultiplier: DefaultHighMultiplier,
		MaxInterval:    DefaultMaxInterval,
	}
}

// RandomInterval picks the delay uniformly between two independently
// growing bounds:
//
//	low  = min(MaxInterval, LowInterval  * LowMultiplier^(attempt-1))
//	high = min(MaxInterval, HighInterval * HighMultiplier^(attempt-1))
//
// The bounds are swapped if low ends up above high. With the defaults:
//
//	| Attempt | Range        |
//	| ------- | ------------ |
//	| 1       | 500ms..1s    |
//	| 2       | 500ms..3s    |
//	| 3       | 500ms..9s    |
//	| 4       | 500ms..15s   |
//	| ...     | 500ms..15s   |
type RandomInterval struct {
	low, high       time.Duration
	lowMul, highMul float64
	maxInterval     time.Duration
	src             Source
}

func NewRandomInterval(cfg RandomIntervalConfig) (RandomInterval, error) {
	var errs amperrors.Collection

	errs.Check(cfg.LowInterval >= 0, ErrInvalidArgument, "low interval must be >= 0, got %s", cfg.LowInterval)
	errs.Check(cfg.HighInterval >= 0, ErrInvalidArgument, "high interval must be >= 0, got %s", cfg.HighInterval)
	errs.Check(cfg.MaxInterval >= 0, ErrInvalidArgument, "max interval must be >= 0, got %s", cfg.MaxInterval)
	errs.Check(validMultiplier(cfg.LowMultiplier), ErrInvalidArgument,
		"low multiplier must be a positive finite number, got %v", cfg.LowMultiplier)
	errs.Check(validMultiplier(cfg.HighMultiplier), ErrInvalidArgument,
		"high multiplier must be a positive finite number, got %v", cfg.HighMultiplier)

	if err := errs.GetError(); err != nil {
		return RandomInterval{}, err
	}

	return RandomInterval{
		low:         cfg.LowInterval,
		high:        cfg.HighInterval,
		lowMul:      cfg.LowMultiplier,
		highMul:     cfg.HighMultiplier,
		maxInterval: cfg.MaxInterval,
		src:         orDefault(cfg.Rand),
	}, nil
}

// Bounds returns the range Delay samples from for the given attempt.
func (r RandomInterval) Bounds(attempt int) (time.Duration, time.Duration, error) {
	if err := checkAttempt(attempt); err != nil {
		return 0, 0, err
	}

	low := clamp(scaled(r.low, r.lowMul, attempt, r.maxInterval), r.maxInterval)
	high := clamp(scaled(r.high, r.highMul, attempt, r.maxInterval), r.maxInterval)

	if low > high {
		low, high = high, low
	}

	return low, high, nil
}

func (r RandomInterval) Delay(attempt int) (time.Duration, error) {
	low, high, err := r.Bounds(attempt)
	if err != nil {
		return 0, err
	}

	d := clamp(between(r.src, float64(low), float64(high)), high)

	return max(d, low), nil
}
