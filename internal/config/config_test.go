package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, 4, cfg.Statistics.MaxConcurrency)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wellstats.yaml")
	content := []byte(`
server:
  port: 9090
logging:
  level: debug
security:
  rate_limit:
    enabled: false
statistics:
  default_calculation: both
  max_concurrency: 8
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Statistics.DefaultCalculation)
	assert.Equal(t, 8, cfg.Statistics.MaxConcurrency)

	// File values win over default tags, including a false that a
	// zero-value merge would drop.
	assert.False(t, cfg.Security.RateLimit.Enabled)

	// Fields the file does not mention keep their defaults.
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, 50, cfg.Security.RateLimit.Burst)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wellstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	t.Setenv("WELLSTATS_SERVER_PORT", "7070")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"bad calculation", func(c *Config) { c.Statistics.DefaultCalculation = "harmonic" }},
		{"bad concurrency", func(c *Config) { c.Statistics.MaxConcurrency = 0 }},
		{"bad rate limit", func(c *Config) { c.Security.RateLimit.RPS = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.ReportsDir = filepath.Join(dir, "reports")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirectories())
	for _, d := range []string{cfg.Paths.DataDir, cfg.Paths.ReportsDir, cfg.Paths.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(cfg.Paths.ReportsDir, "out.csv"), cfg.ReportPath("out.csv"))
}
