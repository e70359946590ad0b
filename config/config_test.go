package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, uint64(42), cfg.Model.Seed)
	assert.Equal(t, 1000, cfg.Model.SampleCount)
	assert.Equal(t, 100, cfg.Model.TreeCount)
	assert.Equal(t, 10, cfg.Model.MaxDepth)
	assert.InDelta(t, 0.2, cfg.Model.ValidationFraction, 1e-12)
	assert.Equal(t, "", cfg.Cache.RedisAddr)
	assert.Equal(t, time.Minute, cfg.RateLimit.Refill)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log_level: debug
server:
  addr: ":9090"
  write_timeout: 30s
model:
  seed: 7
  sample_count: 500
  tree_count: 50
cache:
  redis_addr: "localhost:6379"
  ttl: 10m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MODEL_TREE_COUNT", "25")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, uint64(7), cfg.Model.Seed)
	assert.Equal(t, 500, cfg.Model.SampleCount)
	assert.Equal(t, 25, cfg.Model.TreeCount)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "sk-test", cfg.Insights.AnthropicAPIKey)

	train := cfg.TrainConfig()
	assert.Equal(t, uint64(7), train.Seed)
	assert.Equal(t, 500, train.SampleCount)
	assert.Equal(t, 25, train.Forest.Trees)
	assert.Equal(t, 10, train.Forest.MaxDepth)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "bad yaml", content: "model: [unclosed"},
		{name: "bad log level", content: "log_level: loud"},
		{name: "negative samples", content: "model:\n  sample_count: -1"},
		{name: "validation fraction of one", content: "model:\n  validation_fraction: 1"},
		{name: "bad env int", content: "", env: map[string]string{"MODEL_SAMPLE_COUNT": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
