package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-hris-admin/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, 300*time.Millisecond, cfg.Check.Debounce)
		assert.Equal(t, 5*time.Second, cfg.Check.Timeout)
		assert.Equal(t, 2, cfg.Check.MinLength)
		assert.Equal(t, "hr.admin.audit.v1", cfg.Audit.Topic)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ADMIN_API_BASE_URL", "https://hr.example.com/")
		t.Setenv("ADMIN_HTTP_TIMEOUT", "3s")
		t.Setenv("ADMIN_CHECK_DEBOUNCE", "50ms")
		t.Setenv("ADMIN_ENV", "production")
		t.Setenv("REDIS_ADDR", "localhost:6379")

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "https://hr.example.com", cfg.API.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.API.Timeout)
		assert.Equal(t, 50*time.Millisecond, cfg.Check.Debounce)
		assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("env file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := filepath.Join(dir, "admin.env")
		require.NoError(t, os.WriteFile(path, []byte("ADMIN_OPERATOR=alice\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("ADMIN_OPERATOR") })

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "alice", cfg.Operator)
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.env"))
		assert.Error(t, err)
	})

	t.Run("invalid values are joined", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ADMIN_API_BASE_URL", "not a url")
		t.Setenv("ADMIN_HTTP_TIMEOUT", "soon")

		_, err := config.Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_API_BASE_URL")
		assert.Contains(t, err.Error(), "ADMIN_HTTP_TIMEOUT")
	})
}
