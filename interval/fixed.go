package interval

import (
	"fmt"
	"time"
)

// DefaultInterval is the default base delay for Fixed and the exponential strategies.
const DefaultInterval = 500 * time.Millisecond

// FixedConfig configures a Fixed algorithm.
type FixedConfig struct {
	// Interval is returned for every attempt. Zero means retry immediately.
	Interval time.Duration
}

func DefaultFixedConfig() FixedConfig {
	return FixedConfig{Interval: DefaultInterval}
}

// Fixed waits the same interval before every attempt.
//
//	| Attempt | Delay |
//	| ------- | ----- |
//	| 1       | 500ms |
//	| 2       | 500ms |
//	| ...     | ...   |
type Fixed struct {
	interval time.Duration
}

func NewFixed(cfg FixedConfig) (Fixed, error) {
	if cfg.Interval < 0 {
		return Fixed{}, fmt.Errorf("%w: interval must be >= 0, got %s", ErrInvalidArgument, cfg.Interval)
	}

	return Fixed{interval: cfg.Interval}, nil
}

func (f Fixed) Delay(attempt int) (time.Duration, error) {
	if err := checkAttempt(attempt); err != nil {
		return 0, err
	}

	return f.interval, nil
}

func (f Fixed) Interval() time.Duration {
	return f.interval
}
