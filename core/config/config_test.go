package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.ApiKey)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "proposals", cfg.Storage.Bucket)
	assert.Equal(t, "archive/proposals", cfg.Storage.ArchivePrefix)
	assert.Equal(t, 4, cfg.Ingest.MaxConcurrentBatches)
	assert.Equal(t, 60, cfg.Ingest.BatchTimeoutSeconds)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_API_KEY", "secret")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("INGEST_MAX_CONCURRENT_BATCHES", "2")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Server.ApiKey)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 2, cfg.Ingest.MaxConcurrentBatches)
}

func TestLoadConfig_PlatformAliases(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tbmm")
	t.Setenv("PORT", "5000")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/tbmm", cfg.Database.URL)
	assert.Equal(t, "5000", cfg.Server.Port)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=console\nSTORAGE_ENABLED=true\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("STORAGE_ENABLED")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Storage.Enabled)
}
