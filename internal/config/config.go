// Package config loads the service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces the environment overrides (WELLSTATS_SERVER_PORT...).
const envPrefix = "WELLSTATS"

// Config represents the complete application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Statistics StatisticsConfig `yaml:"statistics" envconfig:"STATISTICS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"` // console, file, both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wellstats.log"`
}

// SecurityConfig contains request-limiting configuration.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains token-bucket rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// StatisticsConfig contains engine request defaults.
type StatisticsConfig struct {
	// DefaultCalculation applies when a request carries no explicit
	// mode: weighted, arithmetic or both. Empty keeps the engine's
	// per-kind default.
	DefaultCalculation string `yaml:"default_calculation" envconfig:"DEFAULT_CALCULATION"`
	IncludeEmptyGroups bool   `yaml:"include_empty_groups" envconfig:"INCLUDE_EMPTY_GROUPS" default:"false"`
	// MaxConcurrency caps the parallel (well, series) computations of
	// one batch request.
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"4"`
}

// Load reads the configuration: defaults first, then the YAML file if
// present, then environment variables, which take precedence.
func Load(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configFile, err)
			}
			cfg = mergeConfigs(cfg, fileCfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// fileConfig is a parsed YAML configuration file. The raw document is
// kept alongside the typed struct so the merge can tell a key the file
// actually sets apart from one left at its zero value.
type fileConfig struct {
	cfg Config
	raw map[interface{}]interface{}
}

// has reports whether the file sets the given key path.
func (f *fileConfig) has(path ...string) bool {
	node := interface{}(f.raw)
	for _, key := range path {
		m, ok := node.(map[interface{}]interface{})
		if !ok {
			return false
		}
		if node, ok = m[key]; !ok {
			return false
		}
	}
	return true
}

func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f.cfg); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &f.raw); err != nil {
		return nil, err
	}
	return &f, nil
}

// mergeConfigs overlays the file configuration on top of the
// environment-derived one. A file value wins unless its WELLSTATS_
// variable is explicitly set; re-running envconfig over the merged
// struct would re-apply the default tags, so precedence is resolved
// here field by field.
func mergeConfigs(env Config, file *fileConfig) Config {
	out := env
	fromFile := func(envVar string, path ...string) bool {
		if _, set := os.LookupEnv(envVar); set {
			return false
		}
		return file.has(path...)
	}

	if fromFile("WELLSTATS_SERVER_PORT", "server", "port") {
		out.Server.Port = file.cfg.Server.Port
	}
	if fromFile("WELLSTATS_SERVER_READ_TIMEOUT", "server", "read_timeout") {
		out.Server.ReadTimeout = file.cfg.Server.ReadTimeout
	}
	if fromFile("WELLSTATS_SERVER_WRITE_TIMEOUT", "server", "write_timeout") {
		out.Server.WriteTimeout = file.cfg.Server.WriteTimeout
	}
	if fromFile("WELLSTATS_SERVER_IDLE_TIMEOUT", "server", "idle_timeout") {
		out.Server.IdleTimeout = file.cfg.Server.IdleTimeout
	}
	if fromFile("WELLSTATS_SERVER_SHUTDOWN_TIMEOUT", "server", "shutdown_timeout") {
		out.Server.ShutdownTimeout = file.cfg.Server.ShutdownTimeout
	}

	if fromFile("WELLSTATS_LOGGING_LEVEL", "logging", "level") {
		out.Logging.Level = file.cfg.Logging.Level
	}
	if fromFile("WELLSTATS_LOGGING_OUTPUT", "logging", "output") {
		out.Logging.Output = file.cfg.Logging.Output
	}
	if fromFile("WELLSTATS_LOGGING_FILE_PATH", "logging", "file_path") {
		out.Logging.FilePath = file.cfg.Logging.FilePath
	}

	if fromFile("WELLSTATS_SECURITY_RATE_LIMIT_ENABLED", "security", "rate_limit", "enabled") {
		out.Security.RateLimit.Enabled = file.cfg.Security.RateLimit.Enabled
	}
	if fromFile("WELLSTATS_SECURITY_RATE_LIMIT_RPS", "security", "rate_limit", "rps") {
		out.Security.RateLimit.RPS = file.cfg.Security.RateLimit.RPS
	}
	if fromFile("WELLSTATS_SECURITY_RATE_LIMIT_BURST", "security", "rate_limit", "burst") {
		out.Security.RateLimit.Burst = file.cfg.Security.RateLimit.Burst
	}

	if fromFile("WELLSTATS_PATHS_DATA_DIR", "paths", "data_dir") {
		out.Paths.DataDir = file.cfg.Paths.DataDir
	}
	if fromFile("WELLSTATS_PATHS_REPORTS_DIR", "paths", "reports_dir") {
		out.Paths.ReportsDir = file.cfg.Paths.ReportsDir
	}
	if fromFile("WELLSTATS_PATHS_LOGS_DIR", "paths", "logs_dir") {
		out.Paths.LogsDir = file.cfg.Paths.LogsDir
	}

	if fromFile("WELLSTATS_STATISTICS_DEFAULT_CALCULATION", "statistics", "default_calculation") {
		out.Statistics.DefaultCalculation = file.cfg.Statistics.DefaultCalculation
	}
	if fromFile("WELLSTATS_STATISTICS_INCLUDE_EMPTY_GROUPS", "statistics", "include_empty_groups") {
		out.Statistics.IncludeEmptyGroups = file.cfg.Statistics.IncludeEmptyGroups
	}
	if fromFile("WELLSTATS_STATISTICS_MAX_CONCURRENCY", "statistics", "max_concurrency") {
		out.Statistics.MaxConcurrency = file.cfg.Statistics.MaxConcurrency
	}

	return out
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output %q", c.Logging.Output)
	}
	switch c.Statistics.DefaultCalculation {
	case "", "weighted", "arithmetic", "both":
	default:
		return fmt.Errorf("invalid default calculation %q", c.Statistics.DefaultCalculation)
	}
	if c.Statistics.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", c.Statistics.MaxConcurrency)
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive, got %g", c.Security.RateLimit.RPS)
	}
	return nil
}

// EnsureDirectories creates the configured directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath resolves a report file name inside the reports directory.
func (c *Config) ReportPath(name string) string {
	return filepath.Join(c.Paths.ReportsDir, name)
}
