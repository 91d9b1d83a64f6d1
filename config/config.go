package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML duration strings ("1m30s").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full module configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Retry     RetryConfig     `yaml:"retry"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Cache     CacheConfig     `yaml:"cache"`
	Health    HealthConfig    `yaml:"health"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// MetricsConfig configures the metrics pipeline.
type MetricsConfig struct {
	Exporter    string `yaml:"exporter" validate:"omitempty,oneof=otlp stdout none"`
	ServiceName string `yaml:"serviceName"`
}

// RateLimitConfig sets the default limiter applied to resources with no
// explicit registration.
type RateLimitConfig struct {
	Strategy string   `yaml:"strategy" validate:"omitempty,oneof=token_bucket sliding_window fixed_window"`
	Rate     float64  `yaml:"rate" validate:"omitempty,gt=0"`
	Burst    int      `yaml:"burst" validate:"omitempty,min=1"`
	Limit    int      `yaml:"limit" validate:"omitempty,min=1"`
	Window   Duration `yaml:"window"`
}

// RetryConfig sets the retry policy.
type RetryConfig struct {
	MaxAttempts int      `yaml:"maxAttempts" validate:"omitempty,min=1,max=120"`
	BaseDelay   Duration `yaml:"baseDelay"`
	MaxDelay    Duration `yaml:"maxDelay"`
	Multiplier  float64  `yaml:"multiplier" validate:"omitempty,gt=1"`
	Jitter      *bool    `yaml:"jitter"`
}

// BreakerConfig sets the per-resource circuit breaker policy.
type BreakerConfig struct {
	FailureThreshold int      `yaml:"failureThreshold" validate:"omitempty,min=1"`
	Cooldown         Duration `yaml:"cooldown"`
	HalfOpenTrials   int      `yaml:"halfOpenTrials" validate:"omitempty,min=1"`
}

// ParallelConfig sets the bounded-concurrency processor.
type ParallelConfig struct {
	MaxConcurrent int      `yaml:"maxConcurrent" validate:"omitempty,min=1,max=1000"`
	Timeout       Duration `yaml:"timeout"`
}

// CacheConfig configures result caching.
type CacheConfig struct {
	Disabled bool     `yaml:"disabled"`
	HTTPTTL  Duration `yaml:"httpTTL"`
	LLMTTL   Duration `yaml:"llmTTL"`
	QueryTTL Duration `yaml:"queryTTL"`
}

// HealthConfig configures the health aggregator.
type HealthConfig struct {
	Timeout     Duration `yaml:"timeout"`
	MaxParallel int      `yaml:"maxParallel" validate:"omitempty,min=1"`
}
