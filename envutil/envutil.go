// Package envutil reads typed configuration values from environment
// variables. Every reader takes a context so that values can be overridden
// per call tree with WithEnvOverride (handy in tests, which then don't need
// to mutate the process environment).
package envutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// get returns a Reader for the given key, preferring a context override
// over the process environment.
func get(ctx context.Context, key string) Reader[string] {
	val, ok := getEnvOverride(ctx, key)
	if !ok {
		val, ok = os.LookupEnv(key)
	}

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

// NewReader returns a Reader for the given raw data. Useful when values come
// from somewhere other than the environment.
func NewReader[T any](key string, present bool, err error, value T) Reader[T] {
	return Reader[T]{
		key:     key,
		present: present,
		value:   value,
		err:     err,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(trimmed(ctx, key), strconv.ParseBool), opts)
}

func Int[I ~int | ~int8 | ~int16 | ~int32 | ~int64](ctx context.Context, key string, opts ...Option[I]) Reader[I] {
	rdr := Map(trimmed(ctx, key), func(s string) (I, error) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}

		out := I(n)
		if int64(out) != n {
			return 0, fmt.Errorf("%w: %d", strconv.ErrRange, n)
		}

		return out, nil
	})

	return apply(rdr, opts)
}

func Float64(ctx context.Context, key string, opts ...Option[float64]) Reader[float64] {
	return apply(Map(trimmed(ctx, key), func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}), opts)
}

// Duration parses values like "250ms" or "1m30s".
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(trimmed(ctx, key), time.ParseDuration), opts)
}

// SlogLevel parses debug, info, warn or error (case-insensitive).
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(trimmed(ctx, key), func(s string) (slog.Level, error) {
		var lvl slog.Level

		err := lvl.UnmarshalText([]byte(strings.ToLower(s)))

		return lvl, err
	}), opts)
}

func trimmed(ctx context.Context, key string) Reader[string] {
	return get(ctx, key).Map(func(s string) (string, error) {
		return strings.TrimSpace(s), nil
	})
}
