package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0, cfg.Analyzer.TimeoutSeconds)
	assert.Equal(t, time.Duration(0), cfg.Analyzer.Timeout())
	assert.Equal(t, "http://localhost:5000/analyze", cfg.Analyzer.Endpoint())
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Mongo.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CHATLENS_REDIS_ENABLED", "true")
	t.Setenv("CHATLENS_ANALYZER_BASE_URL", "http://backend:9000/")
	t.Setenv("CHATLENS_ANALYZER_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "http://backend:9000/analyze", cfg.Analyzer.Endpoint())
	assert.Equal(t, 30*time.Second, cfg.Analyzer.Timeout())
}
