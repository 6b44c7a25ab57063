package retry

import (
	"context"
	"testing"
	"time"

	"github.com/amp-labs/amp-backoff/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicy_Defaults(t *testing.T) {
	t.Parallel()

	policy, err := NewPolicy()
	require.NoError(t, err)

	limit, unlimited := policy.MaxAttempts()
	assert.Equal(t, DefaultMaxAttempts, limit)
	assert.False(t, unlimited)
	assert.Zero(t, policy.MaxElapsed())
	assert.Empty(t, policy.Name())
	assert.Equal(t, interval.Must(interval.NewExponential(interval.DefaultExponentialConfig())), policy.Algorithm())
	assert.IsType(t, TimerScheduler{}, policy.scheduler)
}

func TestNewPolicy_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"negative attempts", []Option{WithMaxAttempts(-1)}, "max attempts"},
		{"nil algorithm", []Option{WithAlgorithm(nil)}, "algorithm"},
		{"negative elapsed", []Option{WithMaxElapsed(-time.Second)}, "max elapsed"},
		{"nil filter", []Option{WithFilter(nil)}, "filter"},
		{"nil scheduler", []Option{WithScheduler(nil)}, "scheduler"},
		{"negative timeout", []Option{WithTimeout(-time.Second)}, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewPolicy(tt.opts...)
			require.ErrorIs(t, err, ErrInvalidArgument)
			require.ErrorIs(t, err, interval.ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewPolicy_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	_, err := NewPolicy(WithMaxAttempts(-3), WithMaxElapsed(-time.Minute), WithAlgorithm(nil))
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "max attempts must be >= 0, got -3")
	assert.Contains(t, err.Error(), "max elapsed must be >= 0")
	assert.Contains(t, err.Error(), "algorithm must not be nil")
}

func TestNewPolicy_UnlimitedOverridesNegativeLimit(t *testing.T) {
	t.Parallel()

	policy, err := NewPolicy(WithMaxAttempts(-1), WithUnlimitedAttempts())
	require.NoError(t, err)

	_, unlimited := policy.MaxAttempts()
	assert.True(t, unlimited)

	policy, err = NewPolicy(WithUnlimitedAttempts(), WithMaxAttempts(2))
	require.NoError(t, err)

	limit, unlimited := policy.MaxAttempts()
	assert.False(t, unlimited, "a later WithMaxAttempts restores the limit")
	assert.Equal(t, 2, limit)
}

func TestMustPolicy(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { MustPolicy(WithName("ok")) })
	assert.Panics(t, func() { MustPolicy(WithMaxAttempts(-1)) })
}

func TestPolicy_HooksAreCopied(t *testing.T) {
	t.Parallel()

	var calls []string

	opts := []Option{WithOnRetry(func(_ context.Context, _ Event) { calls = append(calls, "a") })}

	policy := MustPolicy(opts...)
	_ = MustPolicy(append(opts, WithOnRetry(func(_ context.Context, _ Event) { calls = append(calls, "b") }))...)

	_, err := policy.NewCoordinator().OnFailure(t.Context(), errIO)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, calls)
}
