package retry

import (
	"testing"
	"time"

	"github.com/amp-labs/amp-backoff/envutil"
	"github.com/amp-labs/amp-backoff/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFromEnv(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverrides(t.Context(), map[string]string{
		"UPLOAD_MAX_ATTEMPTS": "3",
		"UPLOAD_MAX_ELAPSED":  "1m",
		"UPLOAD_TIMEOUT":      "10s",
		"UPLOAD_ALGORITHM":    "fixed",
		"UPLOAD_INTERVAL":     "2s",
	})

	policy, err := PolicyFromEnv(ctx, "UPLOAD", WithName("upload"), WithMaxAttempts(7))
	require.NoError(t, err)

	limit, unlimited := policy.MaxAttempts()
	assert.Equal(t, 3, limit, "the environment wins over options")
	assert.False(t, unlimited)
	assert.Equal(t, time.Minute, policy.MaxElapsed())
	assert.Equal(t, 10*time.Second, policy.timeout)
	assert.Equal(t, "upload", policy.Name())
	assert.Equal(t, fixed(2*time.Second), policy.Algorithm())
}

func TestPolicyFromEnv_Unset(t *testing.T) {
	t.Parallel()

	alg := fixed(time.Second)

	policy, err := PolicyFromEnv(t.Context(), "AMP_BACKOFF_TEST_UNSET", WithAlgorithm(alg), WithMaxAttempts(2))
	require.NoError(t, err)

	limit, _ := policy.MaxAttempts()
	assert.Equal(t, 2, limit)
	assert.Equal(t, alg, policy.Algorithm())
}

func TestPolicyFromEnv_Unlimited(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(t.Context(), "JOB_MAX_ATTEMPTS", " Unlimited ")

	policy, err := PolicyFromEnv(ctx, "JOB")
	require.NoError(t, err)

	_, unlimited := policy.MaxAttempts()
	assert.True(t, unlimited)
}

func TestPolicyFromEnv_AlgorithmOnly(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverrides(t.Context(), map[string]string{
		"JOB_MULTIPLIER":   "3",
		"JOB_MAX_INTERVAL": "1m",
	})

	policy, err := PolicyFromEnv(ctx, "JOB")
	require.NoError(t, err)

	cfg := interval.DefaultExponentialConfig()
	cfg.Multiplier = 3
	cfg.MaxInterval = time.Minute

	assert.Equal(t, interval.Must(interval.NewExponential(cfg)), policy.Algorithm())
}

func TestPolicyFromEnv_Errors(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverrides(t.Context(), map[string]string{
		"JOB_MAX_ATTEMPTS": "lots",
		"JOB_MAX_ELAPSED":  "forever",
		"JOB_ALGORITHM":    "fixed",
		"JOB_MULTIPLIER":   "2",
	})

	_, err := PolicyFromEnv(ctx, "JOB")
	require.ErrorIs(t, err, envutil.ErrBadEnvVar)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "JOB_MAX_ATTEMPTS")
	assert.Contains(t, err.Error(), "JOB_MAX_ELAPSED")
	assert.Contains(t, err.Error(), "JOB_ALGORITHM")
}

func TestPolicyFromEnv_NegativeAttempts(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(t.Context(), "JOB_MAX_ATTEMPTS", "-2")

	_, err := PolicyFromEnv(ctx, "JOB")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPolicyFromEnv_EmptyPrefix(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(t.Context(), "MAX_ATTEMPTS", "1")

	policy, err := PolicyFromEnv(ctx, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, policy)
}
