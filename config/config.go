package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lead-scorer/model"
)

const (
	DefaultConfigPath = "config.yaml"
	EnvConfigPath     = "LEAD_SCORER_CONFIG"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Refill   time.Duration `yaml:"refill"`
}

type ModelConfig struct {
	Seed               uint64  `yaml:"seed"`
	SampleCount        int     `yaml:"sample_count"`
	TreeCount          int     `yaml:"tree_count"`
	MaxDepth           int     `yaml:"max_depth"`
	ValidationFraction float64 `yaml:"validation_fraction"`
	Workers            int     `yaml:"workers"`
}

type CacheConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type InsightsConfig struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	Model           string `yaml:"model"`
}

type DemoConfig struct {
	Seed uint64 `yaml:"seed"`
}

// Config is the root configuration of the lead scorer.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Model     ModelConfig     `yaml:"model"`
	Cache     CacheConfig     `yaml:"cache"`
	Insights  InsightsConfig  `yaml:"insights"`
	Demo      DemoConfig      `yaml:"demo"`
}

// Load reads the YAML file (if present), applies environment overrides and
// defaults, and validates the result. An explicit path wins over
// LEAD_SCORER_CONFIG.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
		if envPath := os.Getenv(EnvConfigPath); envPath != "" {
			path = envPath
		}
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// sin archivo: defaults + env
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.loadDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	var cfg Config
	cfg.loadDefaults()
	return &cfg
}

func (c *Config) loadEnv() error {
	envOverride(&c.LogLevel, "LOG_LEVEL")
	envOverride(&c.Server.Addr, "HTTP_ADDR")
	envOverride(&c.Cache.RedisAddr, "REDIS_ADDR")
	envOverride(&c.Insights.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&c.Insights.Model, "ANTHROPIC_MODEL")

	if err := envOverrideUint(&c.Model.Seed, "MODEL_SEED"); err != nil {
		return err
	}
	if err := envOverrideInt(&c.Model.SampleCount, "MODEL_SAMPLE_COUNT"); err != nil {
		return err
	}
	if err := envOverrideInt(&c.Model.TreeCount, "MODEL_TREE_COUNT"); err != nil {
		return err
	}
	if err := envOverrideInt(&c.RateLimit.Capacity, "RATE_LIMIT_CAPACITY"); err != nil {
		return err
	}
	return envOverrideUint(&c.Demo.Seed, "DEMO_SEED")
}

func (c *Config) loadDefaults() {
	defaults := model.DefaultTrainConfig()

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.Refill == 0 {
		c.RateLimit.Refill = time.Minute
	}
	if c.Model.Seed == 0 {
		c.Model.Seed = defaults.Seed
	}
	if c.Model.SampleCount == 0 {
		c.Model.SampleCount = defaults.SampleCount
	}
	if c.Model.TreeCount == 0 {
		c.Model.TreeCount = defaults.Forest.Trees
	}
	if c.Model.MaxDepth == 0 {
		c.Model.MaxDepth = defaults.Forest.MaxDepth
	}
	if c.Model.ValidationFraction == 0 {
		c.Model.ValidationFraction = defaults.ValidationFraction
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Insights.Model == "" {
		c.Insights.Model = "claude-3-5-haiku-latest"
	}
}

func (c *Config) validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Model.SampleCount < 1 {
		return fmt.Errorf("invalid model.sample_count %d: must be >= 1", c.Model.SampleCount)
	}
	if c.Model.TreeCount < 1 {
		return fmt.Errorf("invalid model.tree_count %d: must be >= 1", c.Model.TreeCount)
	}
	if c.Model.MaxDepth < 1 {
		return fmt.Errorf("invalid model.max_depth %d: must be >= 1", c.Model.MaxDepth)
	}
	if c.Model.ValidationFraction < 0 || c.Model.ValidationFraction >= 1 {
		return fmt.Errorf("invalid model.validation_fraction %v: must be in [0, 1)", c.Model.ValidationFraction)
	}
	if c.Model.Workers < 0 {
		return fmt.Errorf("invalid model.workers %d: must be >= 0", c.Model.Workers)
	}
	if c.RateLimit.Capacity < 1 {
		return fmt.Errorf("invalid rate_limit.capacity %d: must be >= 1", c.RateLimit.Capacity)
	}
	return nil
}

// TrainConfig maps the model section onto the training configuration.
func (c *Config) TrainConfig() model.TrainConfig {
	cfg := model.DefaultTrainConfig()
	cfg.Seed = c.Model.Seed
	cfg.SampleCount = c.Model.SampleCount
	cfg.ValidationFraction = c.Model.ValidationFraction
	cfg.Forest.Trees = c.Model.TreeCount
	cfg.Forest.MaxDepth = c.Model.MaxDepth
	cfg.Forest.Workers = c.Model.Workers
	cfg.Forest.Seed = c.Model.Seed
	return cfg
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log_level %q", level)
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}

func envOverrideUint(field *uint64, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
