package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("ANNOUNCE_DELAY_MS", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DEV", "")

	c := FromEnv()
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 200*time.Millisecond, c.AnnounceDelay)
	assert.Empty(t, c.DatabaseURL)
	assert.False(t, c.Dev)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("ANNOUNCE_DELAY_MS", "350")
	t.Setenv("DATABASE_URL", "postgres://localhost/darts")
	t.Setenv("DEV", "true")

	c := FromEnv()
	assert.Equal(t, ":9999", c.Addr)
	assert.Equal(t, 350*time.Millisecond, c.AnnounceDelay)
	assert.Equal(t, "postgres://localhost/darts", c.DatabaseURL)
	assert.True(t, c.Dev)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("ANNOUNCE_DELAY_MS", "not-a-number")
	t.Setenv("DEV", "maybe")

	c := FromEnv()
	assert.Equal(t, 200*time.Millisecond, c.AnnounceDelay)
	assert.False(t, c.Dev)

	t.Setenv("ANNOUNCE_DELAY_MS", "-5")
	assert.Equal(t, 200*time.Millisecond, FromEnv().AnnounceDelay)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ANNOUNCE_DELAY_MS=75\n"), 0o600))
	t.Setenv("ANNOUNCE_DELAY_MS", "")
	os.Unsetenv("ANNOUNCE_DELAY_MS")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, 75*time.Millisecond, FromEnv().AnnounceDelay)
}

func TestLoadDotEnvMissingFileIsFine(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
