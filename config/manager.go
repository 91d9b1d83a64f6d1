package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Manager loads, defaults, and validates configuration files.
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a config manager.
func NewManager() *Manager {
	return &Manager{}
}

// LoadFromFile reads a YAML config file, applies defaults, and
// validates the result.
func (m *Manager) LoadFromFile(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	SetDefaults(&cfg)

	if err := validate.Struct(&cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	m.config = &cfg
	m.configPath, _ = filepath.Abs(configPath)
	return nil
}

// Config returns the loaded configuration, or nil before LoadFromFile.
func (m *Manager) Config() *Config {
	return m.config
}

// ConfigPath returns the absolute path of the loaded file.
func (m *Manager) ConfigPath() string {
	return m.configPath
}

// Default returns a configuration with every default applied.
func Default() Config {
	var cfg Config
	SetDefaults(&cfg)
	return cfg
}

// SetDefaults fills zero-valued fields with their defaults.
func SetDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Metrics.Exporter == "" {
		cfg.Metrics.Exporter = "none"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "moguard"
	}

	if cfg.RateLimit.Strategy == "" {
		cfg.RateLimit.Strategy = "token_bucket"
	}
	if cfg.RateLimit.Rate <= 0 {
		cfg.RateLimit.Rate = 1
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = 60
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = Duration(time.Minute)
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BaseDelay <= 0 {
		cfg.Retry.BaseDelay = Duration(time.Second)
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = Duration(60 * time.Second)
	}
	if cfg.Retry.Multiplier <= 1 {
		cfg.Retry.Multiplier = 2
	}
	if cfg.Retry.Jitter == nil {
		jitter := true
		cfg.Retry.Jitter = &jitter
	}

	if cfg.Breaker.FailureThreshold <= 0 {
		cfg.Breaker.FailureThreshold = 5
	}
	if cfg.Breaker.Cooldown <= 0 {
		cfg.Breaker.Cooldown = Duration(60 * time.Second)
	}
	if cfg.Breaker.HalfOpenTrials <= 0 {
		cfg.Breaker.HalfOpenTrials = 3
	}

	if cfg.Parallel.MaxConcurrent <= 0 {
		cfg.Parallel.MaxConcurrent = 5
	}
	if cfg.Parallel.Timeout <= 0 {
		cfg.Parallel.Timeout = Duration(300 * time.Second)
	}

	if cfg.Cache.HTTPTTL <= 0 {
		cfg.Cache.HTTPTTL = Duration(time.Hour)
	}
	if cfg.Cache.LLMTTL <= 0 {
		cfg.Cache.LLMTTL = Duration(7 * 24 * time.Hour)
	}
	if cfg.Cache.QueryTTL <= 0 {
		cfg.Cache.QueryTTL = Duration(5 * time.Minute)
	}

	if cfg.Health.Timeout <= 0 {
		cfg.Health.Timeout = Duration(10 * time.Second)
	}
}
