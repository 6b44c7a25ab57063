package interval

import (
	"math"
	"time"

	amperrors "github.com/amp-labs/amp-backoff/errors"
)

const (
	// DefaultMultiplier doubles the delay after every attempt.
	DefaultMultiplier = 2.0
	// DefaultMaxInterval caps every strategy unless configured otherwise.
	DefaultMaxInterval = 15 * time.Second
	// NoRange disables the random perturbation of exponential delays.
	NoRange = 0.0

	binaryMultiplier = 2.0
)

// ExponentialConfig configures an Exponential algorithm.
type ExponentialConfig struct {
	// Interval is the delay before the first retry.
	Interval time.Duration
	// Multiplier is applied once per attempt after the first.
	Multiplier float64
	// MaxInterval caps the delay, before and after jitter.
	MaxInterval time.Duration
	// Range perturbs each delay by up to ±Range of itself, e.g. 0.2 picks a
	// value uniformly within ±20%. Must be in [0, 1).
	Range float64
	// Rand is the randomness used for Range. Nil means DefaultSource.
	Rand Source
}

func DefaultExponentialConfig() ExponentialConfig {
	return ExponentialConfig{
		Interval:    DefaultInterval,
		Multiplier:  DefaultMultiplier,
		MaxInterval: DefaultMaxInterval,
		Range:       NoRange,
	}
}

// Exponential grows the delay geometrically:
//
//	delay = min(MaxInterval, Interval * Multiplier^(attempt-1))
//
// optionally perturbed by ±Range and clamped again to [0, MaxInterval].
// With the defaults:
//
//	| Attempt | Delay  |
//	| ------- | ------ |
//	| 1       | 500ms  |
//	| 2       | 1s     |
//	| 3       | 2s     |
//	| 4       | 4s     |
//	| 5       | 8s     |
//	| 6       | 15s    |
//	| ...     | 15s    |
type Exponential struct {
	interval    time.Duration
	multiplier  float64
	maxInterval time.Duration
	rng         float64
	src         Source
}

func NewExponential(cfg ExponentialConfig) (Exponential, error) {
	var errs amperrors.Collection

	errs.Check(cfg.Interval >= 0, ErrInvalidArgument, "interval must be >= 0, got %s", cfg.Interval)
	errs.Check(cfg.MaxInterval >= 0, ErrInvalidArgument, "max interval must be >= 0, got %s", cfg.MaxInterval)
	errs.Check(validMultiplier(cfg.Multiplier), ErrInvalidArgument,
		"multiplier must be a positive finite number, got %v", cfg.Multiplier)
	errs.Check(validRange(cfg.Range), ErrInvalidArgument, "range must be in [0, 1), got %v", cfg.Range)

	if err := errs.GetError(); err != nil {
		return Exponential{}, err
	}

	return Exponential{
		interval:    cfg.Interval,
		multiplier:  cfg.Multiplier,
		maxInterval: cfg.MaxInterval,
		rng:         cfg.Range,
		src:         orDefault(cfg.Rand),
	}, nil
}

func (e Exponential) Delay(attempt int) (time.Duration, error) {
	if err := checkAttempt(attempt); err != nil {
		return 0, err
	}

	next := scaled(e.interval, e.multiplier, attempt, e.maxInterval)

	if e.rng != NoRange {
		next = between(e.src, next-next*e.rng, next+next*e.rng)
	}

	return clamp(next, e.maxInterval), nil
}

// Config returns the configuration the algorithm was built from.
func (e Exponential) Config() ExponentialConfig {
	return ExponentialConfig{
		Interval:    e.interval,
		Multiplier:  e.multiplier,
		MaxInterval: e.maxInterval,
		Range:       e.rng,
		Rand:        e.src,
	}
}

// BinaryExponentialConfig configures a BinaryExponential algorithm.
type BinaryExponentialConfig struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Range       float64
	Rand        Source
}

func DefaultBinaryExponentialConfig() BinaryExponentialConfig {
	return BinaryExponentialConfig{
		Interval:    DefaultInterval,
		MaxInterval: DefaultMaxInterval,
		Range:       NoRange,
	}
}

// BinaryExponential is Exponential with the multiplier fixed at 2.
type BinaryExponential struct {
	Exponential
}

func NewBinaryExponential(cfg BinaryExponentialConfig) (BinaryExponential, error) {
	exp, err := NewExponential(ExponentialConfig{
		Interval:    cfg.Interval,
		Multiplier:  binaryMultiplier,
		MaxInterval: cfg.MaxInterval,
		Range:       cfg.Range,
		Rand:        cfg.Rand,
	})
	if err != nil {
		return BinaryExponential{}, err
	}

	return BinaryExponential{Exponential: exp}, nil
}

func validRange(r float64) bool {
	return r >= 0 && r < 1 && !math.IsNaN(r)
}
