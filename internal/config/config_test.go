package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"foodgram/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 6, cfg.ShortLink.Length)
	assert.Equal(t, 5, cfg.ShortLink.MaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "/media/users/default_avatar.jpg", cfg.Users.DefaultAvatar)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "foodgram_events", cfg.RabbitMQ.Queue)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("server:\n  site_domain: https://foodgram.example\nshortlink:\n  length: 8\ndatabase:\n  driver: postgres\n  dsn: host=db\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("SHORTLINK_MAX_ATTEMPTS", "9")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://foodgram.example", cfg.Server.SiteDomain)
	assert.Equal(t, 8, cfg.ShortLink.Length)
	assert.Equal(t, 9, cfg.ShortLink.MaxAttempts)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db", cfg.Database.DSN)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := config.LoadConfig("")
	assert.ErrorContains(t, err, "unsupported database driver")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
