package env

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvWithFallback(t *testing.T) {
	t.Run("returns the variable when set", func(t *testing.T) {
		t.Setenv("EVENTLENS_TEST_VAR", "from-env")
		assert.Equal(t, "from-env", GetEnvWithFallback("EVENTLENS_TEST_VAR", "fallback"))
	})

	t.Run("returns the fallback when unset", func(t *testing.T) {
		assert.Equal(t, "fallback", GetEnvWithFallback("EVENTLENS_UNSET_VAR", "fallback"))
	})

	t.Run("empty value counts as unset", func(t *testing.T) {
		t.Setenv("EVENTLENS_EMPTY_VAR", "")
		assert.Equal(t, "fallback", GetEnvWithFallback("EVENTLENS_EMPTY_VAR", "fallback"))
	})
}

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadEnvFiles(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		chdir(t, t.TempDir())
		assert.NoError(t, LoadEnvFiles())
	})

	t.Run("loads variables from .env", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(dir+"/.env", []byte("EVENTLENS_DOTENV_VAR=loaded\n"), 0o600))
		chdir(t, dir)

		require.NoError(t, LoadEnvFiles())
		assert.Equal(t, "loaded", os.Getenv("EVENTLENS_DOTENV_VAR"))
		t.Cleanup(func() { _ = os.Unsetenv("EVENTLENS_DOTENV_VAR") })
	})
}
