package hooks

import (
	"context"
	"log/slog"

	"github.com/amp-labs/amp-backoff/logger"
	"github.com/amp-labs/amp-backoff/retry"
)

// LogOption configures Log.
type LogOption func(*logConfig)

type logConfig struct {
	retryLevel  slog.Level
	giveUpLevel slog.Level
}

// WithRetryLevel sets the level of "retrying operation" records (default info).
func WithRetryLevel(level slog.Level) LogOption {
	return func(c *logConfig) {
		c.retryLevel = level
	}
}

// WithGiveUpLevel sets the level of "giving up" records (default warn).
func WithGiveUpLevel(level slog.Level) LogOption {
	return func(c *logConfig) {
		c.giveUpLevel = level
	}
}

// Log writes a record for every retry and give-up through logger.Get, so
// the values attached to the context end up in the record too.
func Log(opts ...LogOption) retry.HookSet {
	cfg := logConfig{
		retryLevel:  slog.LevelInfo,
		giveUpLevel: slog.LevelWarn,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return retry.HookSet{
		OnRetry: func(ctx context.Context, event retry.Event) {
			logger.Get(ctx).Log(ctx, cfg.retryLevel, "retrying operation", attrs(event)...)
		},
		OnGiveUp: func(ctx context.Context, event retry.Event) {
			logger.Get(ctx).Log(ctx, cfg.giveUpLevel, "giving up", attrs(event)...)
		},
	}
}
