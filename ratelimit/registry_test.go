package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	err := reg.Register("openai", Config{Rate: 50, Burst: 10})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	stats, ok := reg.Stats("openai")
	if !ok {
		t.Fatal("Stats() ok = false, want true after registration")
	}
	if stats.Strategy != StrategyTokenBucket {
		t.Errorf("Strategy = %s, want %s", stats.Strategy, StrategyTokenBucket)
	}
	if stats.Rate != 50 {
		t.Errorf("Rate = %f, want 50", stats.Rate)
	}
}

func TestRegistry_RegisterUnknownStrategy(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	err := reg.Register("bad", Config{Strategy: "leaky_bucket"})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Register() error = %v, want ErrUnknownStrategy", err)
	}
}

func TestRegistry_ReregisterOverwrites(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	if err := reg.Register("api", Config{Burst: 2}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	reg.AllowN("api", 2)
	if reg.AllowN("api", 1) {
		t.Fatal("AllowN() = true, want false with the first limiter drained")
	}

	// Overwriting replaces the instance, so capacity is fresh.
	if err := reg.Register("api", Config{Burst: 2}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !reg.AllowN("api", 2) {
		t.Error("AllowN() = false, want true after the limiter was replaced")
	}
}

func TestRegistry_AutoCreatesUnknownName(t *testing.T) {
	reg := NewRegistry(RegistryConfig{
		Defaults: Config{Rate: 0.01, Burst: 2},
	})

	if !reg.AllowN("unknown-name", 1) {
		t.Fatal("AllowN() = false, want true for an auto-created limiter")
	}

	// The same instance must carry state across calls.
	if !reg.AllowN("unknown-name", 1) {
		t.Fatal("AllowN() = false, want true for the second token")
	}
	if reg.AllowN("unknown-name", 1) {
		t.Error("AllowN() = true, want false; auto-created limiter state must be shared")
	}
}

func TestRegistry_GetReturnsSameInstance(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	a := reg.Get("svc")
	b := reg.Get("svc")
	if a != b {
		t.Error("Get() returned different instances for the same name")
	}
}

func TestRegistry_Execute(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	ran := false
	err := reg.Execute(context.Background(), "svc", func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ran {
		t.Error("operation was not invoked")
	}
}

func TestRegistry_StatsUnknownName(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	if _, ok := reg.Stats("never-used"); ok {
		t.Error("Stats() ok = true, want false for an unused name")
	}
}

func TestRegistry_StatsWindowStrategy(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	err := reg.Register("win", Config{
		Strategy: StrategySlidingWindow,
		Limit:    5,
		Window:   time.Second,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	stats, _ := reg.Stats("win")
	if stats.Limit != 5 {
		t.Errorf("Limit = %d, want 5", stats.Limit)
	}
	if stats.Window != "1s" {
		t.Errorf("Window = %q, want \"1s\"", stats.Window)
	}
}

func TestRegistry_ResetAll(t *testing.T) {
	reg := NewRegistry(RegistryConfig{Defaults: Config{Rate: 0.01, Burst: 1}})

	reg.AllowN("a", 1)
	reg.AllowN("b", 1)

	reg.ResetAll()

	if !reg.AllowN("a", 1) || !reg.AllowN("b", 1) {
		t.Error("AllowN() = false after ResetAll, want full capacity")
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry(RegistryConfig{})

	reg.AllowN("b", 1)
	reg.AllowN("a", 1)

	names := reg.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
}
