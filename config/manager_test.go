package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.RateLimit.Strategy != "token_bucket" {
		t.Errorf("RateLimit.Strategy = %q, want token_bucket", cfg.RateLimit.Strategy)
	}
	if cfg.RateLimit.Rate != 1 || cfg.RateLimit.Burst != 10 {
		t.Errorf("RateLimit = %+v, want rate 1 burst 10", cfg.RateLimit)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay.Std() != time.Second || cfg.Retry.MaxDelay.Std() != 60*time.Second {
		t.Errorf("Retry delays = %v/%v, want 1s/60s", cfg.Retry.BaseDelay.Std(), cfg.Retry.MaxDelay.Std())
	}
	if cfg.Retry.Jitter == nil || !*cfg.Retry.Jitter {
		t.Error("Retry.Jitter default = false, want true")
	}
	if cfg.Breaker.FailureThreshold != 5 || cfg.Breaker.Cooldown.Std() != 60*time.Second || cfg.Breaker.HalfOpenTrials != 3 {
		t.Errorf("Breaker = %+v, want threshold 5, cooldown 60s, trials 3", cfg.Breaker)
	}
	if cfg.Parallel.MaxConcurrent != 5 || cfg.Parallel.Timeout.Std() != 300*time.Second {
		t.Errorf("Parallel = %+v, want 5 workers, 300s timeout", cfg.Parallel)
	}
	if cfg.Cache.HTTPTTL.Std() != time.Hour || cfg.Cache.LLMTTL.Std() != 7*24*time.Hour || cfg.Cache.QueryTTL.Std() != 5*time.Minute {
		t.Errorf("Cache TTLs = %+v", cfg.Cache)
	}
}

func TestManager_LoadFromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
ratelimit:
  strategy: sliding_window
  limit: 100
  window: 30s
retry:
  maxAttempts: 5
  baseDelay: 500ms
  jitter: false
breaker:
  failureThreshold: 2
  cooldown: 10s
parallel:
  maxConcurrent: 8
`)

	m := NewManager()
	if err := m.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	cfg := m.Config()
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.RateLimit.Strategy != "sliding_window" || cfg.RateLimit.Limit != 100 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.Window.Std() != 30*time.Second {
		t.Errorf("Window = %v, want 30s", cfg.RateLimit.Window.Std())
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.BaseDelay.Std() != 500*time.Millisecond {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if cfg.Retry.Jitter == nil || *cfg.Retry.Jitter {
		t.Error("Retry.Jitter = true, want explicit false preserved")
	}
	if cfg.Breaker.FailureThreshold != 2 || cfg.Breaker.Cooldown.Std() != 10*time.Second {
		t.Errorf("Breaker = %+v", cfg.Breaker)
	}
	// Untouched sections still get defaults.
	if cfg.Cache.LLMTTL.Std() != 7*24*time.Hour {
		t.Errorf("Cache.LLMTTL = %v, want 168h default", cfg.Cache.LLMTTL.Std())
	}
	if m.ConfigPath() == "" {
		t.Error("ConfigPath() empty after load")
	}
}

func TestManager_LoadFromFile_Empty(t *testing.T) {
	path := writeConfig(t, "")

	m := NewManager()
	if err := m.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile(empty) error = %v", err)
	}
	if cfg := m.Config(); cfg.Retry.MaxAttempts != 3 {
		t.Errorf("empty file did not default: %+v", cfg.Retry)
	}
}

func TestManager_LoadFromFile_Missing(t *testing.T) {
	m := NewManager()
	if err := m.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFromFile(missing) = nil error, want error")
	}
}

func TestManager_LoadFromFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "retry: [not a map")
	m := NewManager()
	if err := m.LoadFromFile(path); err == nil {
		t.Error("LoadFromFile(bad yaml) = nil error, want error")
	}
}

func TestManager_LoadFromFile_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"bad strategy", "ratelimit:\n  strategy: leaky_bucket\n"},
		{"bad duration", "retry:\n  baseDelay: fast\n"},
		{"bad exporter", "metrics:\n  exporter: graphite\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			if err := m.LoadFromFile(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadFromFile() = nil error, want error")
			}
		})
	}
}

func TestDuration_MarshalYAML(t *testing.T) {
	v, err := Duration(90 * time.Second).MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error = %v", err)
	}
	if v != "1m30s" {
		t.Errorf("MarshalYAML() = %v, want 1m30s", v)
	}
}
