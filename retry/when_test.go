package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, signals <-chan Signal) (Signal, bool) {
	t.Helper()

	select {
	case s, ok := <-signals:
		return s, ok
	case <-time.After(5 * time.Second):
		t.Fatal("no signal received")

		return Signal{}, false
	}
}

func TestWhen_RetriesThenGivesUp(t *testing.T) {
	t.Parallel()

	var sched recorder

	policy := MustPolicy(
		WithMaxAttempts(2),
		WithAlgorithm(fixed(250*time.Millisecond)),
		WithScheduler(&sched),
	)

	failures := make(chan error)
	signals := policy.When(t.Context(), failures)

	for want := 1; want <= 2; want++ {
		failures <- errIO

		s, ok := receive(t, signals)
		require.True(t, ok)
		assert.False(t, s.Terminal())
		assert.Equal(t, want, s.Attempt)
		assert.Equal(t, 250*time.Millisecond, s.Delay)
	}

	failures <- errRuntime

	s, ok := receive(t, signals)
	require.True(t, ok)
	assert.True(t, s.Terminal())
	assert.Equal(t, errRuntime, s.Err)

	_, ok = receive(t, signals)
	assert.False(t, ok, "the output closes after the terminal signal")

	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, sched.Delays())
}

func TestWhen_FilterRejection(t *testing.T) {
	t.Parallel()

	policy := MustPolicy(WithFilter(Is(errIO)), WithScheduler(&recorder{}))

	failures := make(chan error, 1)
	signals := policy.When(t.Context(), failures)

	failures <- errRuntime

	s, ok := receive(t, signals)
	require.True(t, ok)
	assert.True(t, s.Terminal())
	assert.Equal(t, errRuntime, s.Err)

	_, ok = receive(t, signals)
	assert.False(t, ok)
}

func TestWhen_InputClosed(t *testing.T) {
	t.Parallel()

	failures := make(chan error)
	signals := MustPolicy().When(t.Context(), failures)

	close(failures)

	_, ok := receive(t, signals)
	assert.False(t, ok)
}

func TestWhen_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	signals := MustPolicy().When(ctx, make(chan error))

	cancel()

	_, ok := receive(t, signals)
	assert.False(t, ok)
}

func TestWhen_ContextCanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	policy := MustPolicy(WithAlgorithm(fixed(time.Hour)))

	failures := make(chan error, 1)
	signals := policy.When(ctx, failures)

	failures <- errIO

	cancel()

	_, ok := receive(t, signals)
	assert.False(t, ok, "the real timer is abandoned on cancellation")
}

func TestWhen_AlgorithmFailure(t *testing.T) {
	t.Parallel()

	policy := MustPolicy(WithAlgorithm(brokenAlgorithm{err: errRuntime}))

	failures := make(chan error, 1)
	signals := policy.When(t.Context(), failures)

	failures <- errIO

	s, ok := receive(t, signals)
	require.True(t, ok)
	assert.True(t, s.Terminal())
	require.ErrorIs(t, s.Err, ErrInvalidDelay)
}

func TestWhen_NilFailureGivesUp(t *testing.T) {
	t.Parallel()

	policy := MustPolicy(WithMaxAttempts(0), WithScheduler(&recorder{}))

	failures := make(chan error, 1)
	signals := policy.When(t.Context(), failures)

	failures <- nil

	s, ok := receive(t, signals)
	require.True(t, ok)
	assert.True(t, s.Terminal())
	require.NoError(t, s.Err)
	assert.Equal(t, time.Duration(0), s.Delay)

	_, ok = receive(t, signals)
	assert.False(t, ok)
}
