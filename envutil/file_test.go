package envutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/amp-backoff/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	t.Run(".env file", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "retry.env", `# retry settings
RETRY_MAX_ATTEMPTS=5

RETRY_ALGORITHM="exponential"
export RETRY_INTERVAL=250ms`)

		vars, err := envutil.LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"RETRY_MAX_ATTEMPTS": "5",
			"RETRY_ALGORITHM":    "exponential",
			"RETRY_INTERVAL":     "250ms",
		}, vars)
	})

	t.Run("json file", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "retry.json", `{"env": {"RETRY_MAX_ATTEMPTS": "3"}}`)

		vars, err := envutil.LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, "3", vars["RETRY_MAX_ATTEMPTS"])
	})

	t.Run("yaml file", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "retry.yaml", "env:\n  RETRY_MAX_ATTEMPTS: \"4\"\n  RETRY_RANGE: \"0.2\"\n")

		vars, err := envutil.LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, "4", vars["RETRY_MAX_ATTEMPTS"])
		assert.Equal(t, "0.2", vars["RETRY_RANGE"])
	})

	t.Run("yaml without env section", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "empty.yml", "other: 1\n")

		vars, err := envutil.LoadEnvFile(path)
		require.NoError(t, err)
		assert.Empty(t, vars)
	})

	t.Run("unknown suffix", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "retry.toml", "a = 1")

		_, err := envutil.LoadEnvFile(path)
		require.ErrorIs(t, err, envutil.ErrUnknownFileType)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := envutil.LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "bad.json", `{"env": [}`)

		_, err := envutil.LoadEnvFile(path)
		require.Error(t, err)
	})
}

func TestLoadEnvFileIntoContext(t *testing.T) {
	t.Parallel()

	path := createTempFile(t, "retry.env", "RETRY_MAX_ATTEMPTS=9\n")

	vars, err := envutil.LoadEnvFile(path)
	require.NoError(t, err)

	ctx := envutil.WithEnvOverrides(t.Context(), vars)
	assert.Equal(t, 9, envutil.Int[int](ctx, "RETRY_MAX_ATTEMPTS").ValueOrElse(0))
}

func createTempFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}
