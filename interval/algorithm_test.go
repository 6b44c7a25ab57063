package interval

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource always returns the same value.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

// almostOne is the largest value a Source may return.
const almostOne = constSource(1 - 1e-12)

func TestFunc_Delay(t *testing.T) {
	t.Parallel()

	alg := Func(func(attempt int) time.Duration {
		return time.Duration(attempt) * time.Second
	})

	d, err := alg.Delay(3)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	_, err = alg.Delay(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFunc_NegativeIsClamped(t *testing.T) {
	t.Parallel()

	alg := Func(func(int) time.Duration { return -time.Second })

	d, err := alg.Delay(1)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)
}

func TestMust(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		Must(NewFixed(FixedConfig{Interval: time.Second}))
	})

	assert.Panics(t, func() {
		Must(NewFixed(FixedConfig{Interval: -time.Second}))
	})
}

func TestScaled_SaturatesAtLimit(t *testing.T) {
	t.Parallel()

	limit := time.Hour

	assert.InDelta(t, float64(limit), scaled(time.Second, 10, 10_000, limit), 0)
	assert.InDelta(t, 0, scaled(0, math.MaxFloat64, 10_000, limit), 0)
	assert.InDelta(t, float64(4*time.Second), scaled(time.Second, 2, 3, limit), 0)
}

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), clamp(-5, time.Second))
	assert.Equal(t, time.Duration(0), clamp(math.NaN(), time.Second))
	assert.Equal(t, time.Second, clamp(math.Inf(1), time.Second))
	assert.Equal(t, 10*time.Millisecond, clamp(float64(10*time.Millisecond), time.Second))
}
