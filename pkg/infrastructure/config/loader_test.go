package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should return defaults when nothing is set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("Should apply environment variables with section separators", func(t *testing.T) {
		t.Setenv("BLENDTRACK_STORE", "postgres")
		t.Setenv("BLENDTRACK_SERVER__PORT", "9090")
		t.Setenv("BLENDTRACK_SERVER__READ_TIMEOUT", "30s")
		t.Setenv("BLENDTRACK_DATABASE__HOST", "db.internal")
		t.Setenv("BLENDTRACK_LIFECYCLE__ENFORCE", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StorePostgres, cfg.Store)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.False(t, cfg.Lifecycle.Enforce)
	})

	t.Run("Should read an env file and let the environment win", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("BLENDTRACK_LOG__LEVEL=debug\nBLENDTRACK_REDIS__DB=3\n"), 0o600))
		t.Setenv("BLENDTRACK_REDIS__DB", "5")
		t.Cleanup(func() { os.Unsetenv("BLENDTRACK_LOG__LEVEL") })

		cfg, err := Load(WithEnvFile(path))
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 5, cfg.Redis.DB)
	})

	t.Run("Should ignore a missing env file", func(t *testing.T) {
		_, err := Load(WithEnvFile(filepath.Join(t.TempDir(), "absent.env")))
		assert.NoError(t, err)
	})

	t.Run("Should let overrides win over the environment", func(t *testing.T) {
		t.Setenv("BLENDTRACK_SERVER__PORT", "9090")
		cfg, err := Load(WithOverride("server.port", 7070))
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		testCases := []struct{ key, value string }{
			{"BLENDTRACK_STORE", "sqlite"},
			{"BLENDTRACK_LOG__LEVEL", "chatty"},
			{"BLENDTRACK_SERVER__PORT", "70000"},
			{"BLENDTRACK_SORTING__DUPLICATE_POLICY", "ignore"},
			{"BLENDTRACK_DATABASE__SSL_MODE", "sometimes"},
		}
		for _, tc := range testCases {
			t.Run(tc.key, func(t *testing.T) {
				t.Setenv(tc.key, tc.value)
				_, err := Load()
				assert.Error(t, err)
			})
		}
	})

	t.Run("Should require an address when redis is enabled", func(t *testing.T) {
		t.Setenv("BLENDTRACK_REDIS__ENABLED", "true")
		t.Setenv("BLENDTRACK_REDIS__ADDR", "")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_Postgres(t *testing.T) {
	cfg := Default().Database
	pg := cfg.Postgres()
	assert.Equal(t, "postgres://blendtrack:@localhost:5432/blendtrack?sslmode=disable", pg.DSN())
}
