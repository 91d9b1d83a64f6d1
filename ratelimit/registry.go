package ratelimit

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Defaults is the configuration used when an unknown name is first
	// referenced. Zero-value fields fall back to package defaults.
	Defaults Config

	// Logger records registrations and auto-creations. Default: no-op.
	Logger *zap.Logger
}

// Registry is a named collection of limiters. It shares limiter state
// across call sites for the same logical resource, for example one
// external API. Names are unique within a registry.
type Registry struct {
	defaults Config
	log      *zap.Logger

	mu       sync.RWMutex
	limiters map[string]*registryEntry
}

type registryEntry struct {
	cfg     Config
	limiter Limiter
}

// Stats is a read-only snapshot of a named limiter.
type Stats struct {
	Strategy  Strategy
	Rate      float64
	Burst     int
	Limit     int
	Window    string
	Available float64
}

// NewRegistry creates a limiter registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	cfg.Defaults.defaults()
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Registry{
		defaults: cfg.Defaults,
		log:      cfg.Logger,
		limiters: make(map[string]*registryEntry),
	}
}

// Register creates and stores a limiter under name. Re-registering a name
// overwrites the previous instance, it does not merge state.
func (r *Registry) Register(name string, cfg Config) error {
	cfg.defaults()

	l, err := New(cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.limiters[name]; exists {
		r.log.Warn("rate limiter already registered, overwriting",
			zap.String("name", name))
	}
	r.limiters[name] = &registryEntry{cfg: cfg, limiter: l}
	r.mu.Unlock()

	r.log.Info("registered rate limiter",
		zap.String("name", name),
		zap.String("strategy", string(cfg.Strategy)),
		zap.Float64("rate", cfg.Rate))
	return nil
}

// AllowN consumes n units from the named limiter without blocking. The
// limiter is created with the registry defaults on first use.
func (r *Registry) AllowN(name string, n int) bool {
	return r.get(name).limiter.AllowN(n)
}

// WaitN blocks until the named limiter admits n units or ctx is done.
func (r *Registry) WaitN(ctx context.Context, name string, n int) error {
	return r.get(name).limiter.WaitN(ctx, n)
}

// Execute admits one unit through the named limiter, waiting for capacity,
// then runs op.
func (r *Registry) Execute(ctx context.Context, name string, op func(context.Context) error) error {
	return Execute(ctx, r.get(name).limiter, op)
}

// Get returns the named limiter, creating it with the registry defaults if
// it does not exist yet.
func (r *Registry) Get(name string) Limiter {
	return r.get(name).limiter
}

// Stats returns a snapshot of the named limiter. The second return value
// is false when the name has never been used.
func (r *Registry) Stats(name string) (Stats, bool) {
	r.mu.RLock()
	e, ok := r.limiters[name]
	r.mu.RUnlock()
	if !ok {
		return Stats{}, false
	}

	s := Stats{
		Strategy:  e.cfg.Strategy,
		Available: e.limiter.Available(),
	}
	switch e.cfg.Strategy {
	case StrategyTokenBucket:
		s.Rate = e.cfg.Rate
		s.Burst = e.cfg.Burst
	default:
		s.Limit = e.cfg.Limit
		s.Window = e.cfg.Window.String()
	}
	return s, true
}

// Reset restores the named limiter to full capacity. Unknown names are a
// no-op.
func (r *Registry) Reset(name string) {
	r.mu.RLock()
	e, ok := r.limiters[name]
	r.mu.RUnlock()
	if ok {
		e.limiter.Reset()
	}
}

// ResetAll restores every registered limiter to full capacity.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.limiters {
		e.limiter.Reset()
	}
}

// Names returns the registered limiter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.limiters))
	for name := range r.limiters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) get(name string) *registryEntry {
	r.mu.RLock()
	e, ok := r.limiters[name]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double check, another caller may have created it.
	if e, ok := r.limiters[name]; ok {
		return e
	}

	r.log.Warn("rate limiter not found, creating with defaults",
		zap.String("name", name))

	// Defaults were validated in NewRegistry, New cannot fail here.
	l, _ := New(r.defaults)
	e = &registryEntry{cfg: r.defaults, limiter: l}
	r.limiters[name] = e
	return e
}
