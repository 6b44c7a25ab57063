package retry

import (
	"context"
	"testing"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-backoff/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestSubmit(t *testing.T) {
	t.Parallel()

	pool := pond.NewPool(2)
	t.Cleanup(pool.StopAndWait)

	runner := NewRunner(MustPolicy(WithMaxAttempts(3), WithScheduler(&recorder{})))
	calls := atomic.NewInt32(0)

	task := Submit(t.Context(), pool, runner, func(context.Context) error {
		if calls.Inc() < 3 {
			return errIO
		}

		return nil
	})

	require.NoError(t, task.Wait())
	assert.Equal(t, int32(3), calls.Load())
}

func TestSubmit_GivesUp(t *testing.T) {
	t.Parallel()

	pool := pond.NewPool(1)
	t.Cleanup(pool.StopAndWait)

	runner := NewRunner(MustPolicy(WithMaxAttempts(1), WithScheduler(&recorder{})))

	task := Submit(t.Context(), pool, runner, func(context.Context) error {
		return errIO
	})

	require.ErrorIs(t, task.Wait(), errIO)
}

func TestSubmitValue(t *testing.T) {
	t.Parallel()

	pool := pond.NewResultPool[string](2)
	t.Cleanup(pool.StopAndWait)

	runner := NewValueRunner[string](MustPolicy(WithScheduler(&recorder{})))
	calls := atomic.NewInt32(0)

	result := SubmitValue(t.Context(), pool, runner, func(context.Context) (string, error) {
		if calls.Inc() == 1 {
			return "", errIO
		}

		return "uploaded", nil
	})

	got, err := result.Wait()
	require.NoError(t, err)
	assert.Equal(t, "uploaded", got)
}

func TestBackground(t *testing.T) {
	t.Parallel()

	runner := NewRunner(MustPolicy(WithScheduler(&recorder{})))
	calls := atomic.NewInt32(0)

	task := Background(t.Context(), runner, func(context.Context) error {
		calls.Inc()

		return nil
	})

	require.NoError(t, task.Wait())
	assert.Equal(t, int32(1), calls.Load())
	assert.Same(t, backgroundPool(t.Context()), backgroundPool(t.Context()))
}

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", want: defaultWorkerCount},
		{name: "explicit", value: "4", want: 4},
		{name: "unbounded", value: "0", want: 0},
		{name: "negative", value: "-3", want: defaultWorkerCount},
		{name: "malformed", value: "many", want: defaultWorkerCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := t.Context()
			if tt.value != "" {
				ctx = envutil.WithEnvOverride(ctx, "RETRY_WORKER_COUNT", tt.value)
			}

			assert.Equal(t, tt.want, workerCount(ctx))
		})
	}
}
