// Package moguard assembles rate limiting, circuit breaking, retries,
// caching, and health checks into one context object for an automation
// agent.
//
// A Guard is built once from configuration and handed to every
// component that talks to an external resource. Each resource name gets
// its own limiter and circuit breaker, created lazily with the
// configured defaults.
//
//	guard, err := moguard.New(config.Default())
//	if err != nil {
//	    return err
//	}
//	err = guard.Execute(ctx, "llm", func(ctx context.Context) error {
//	    return client.Generate(ctx, prompt)
//	})
package moguard

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/lineance/moguard/cache"
	"github.com/lineance/moguard/config"
	"github.com/lineance/moguard/health"
	"github.com/lineance/moguard/observe"
	"github.com/lineance/moguard/parallel"
	"github.com/lineance/moguard/plugin"
	"github.com/lineance/moguard/ratelimit"
	"github.com/lineance/moguard/resilience"
)

// Guard owns the module's shared protection state.
type Guard struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *observe.Collector

	limiters  *ratelimit.Registry
	processor *parallel.Processor
	store     *cache.MemoryCache
	plugins   *plugin.Registry
	checks    *health.Aggregator

	mu       sync.Mutex
	breakers map[string]*resilience.CircuitBreaker
}

// Option customizes a Guard.
type Option func(*Guard)

// WithLogger replaces the logger built from the config.
func WithLogger(log *zap.Logger) Option {
	return func(g *Guard) {
		g.log = log
	}
}

// WithMeter records metrics through the given meter instead of the
// global provider.
func WithMeter(meter metric.Meter) Option {
	return func(g *Guard) {
		g.metrics = observe.NewCollector(meter)
	}
}

// WithPlugins uses the given plugin registry instead of
// plugin.DefaultRegistry.
func WithPlugins(reg *plugin.Registry) Option {
	return func(g *Guard) {
		g.plugins = reg
	}
}

// New builds a Guard from configuration.
func New(cfg config.Config, opts ...Option) (*Guard, error) {
	config.SetDefaults(&cfg)

	g := &Guard{
		cfg:      cfg,
		plugins:  plugin.DefaultRegistry,
		breakers: make(map[string]*resilience.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.log == nil {
		log, err := observe.NewLogger(cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
		g.log = log
	}
	if g.metrics == nil {
		g.metrics = observe.NewCollector(nil)
	}

	g.limiters = ratelimit.NewRegistry(ratelimit.RegistryConfig{
		Defaults: ratelimit.Config{
			Strategy: ratelimit.Strategy(cfg.RateLimit.Strategy),
			Rate:     cfg.RateLimit.Rate,
			Burst:    cfg.RateLimit.Burst,
			Limit:    cfg.RateLimit.Limit,
			Window:   cfg.RateLimit.Window.Std(),
		},
		Logger: g.log.Named("ratelimit"),
	})

	g.processor = parallel.NewProcessor(parallel.Config{
		MaxConcurrent: cfg.Parallel.MaxConcurrent,
		Timeout:       cfg.Parallel.Timeout.Std(),
		Logger:        g.log.Named("parallel"),
	})

	g.store = cache.NewMemoryCache()

	g.checks = health.NewAggregator(health.AggregatorConfig{
		Timeout:     cfg.Health.Timeout.Std(),
		MaxParallel: cfg.Health.MaxParallel,
		Logger:      g.log.Named("health"),
	})
	g.checks.Register("runtime", health.RuntimeChecker(health.RuntimeCheckerConfig{}))

	return g, nil
}

// Logger returns the guard's logger.
func (g *Guard) Logger() *zap.Logger { return g.log }

// Metrics returns the metrics collector.
func (g *Guard) Metrics() *observe.Collector { return g.metrics }

// Limiters returns the rate limiter registry.
func (g *Guard) Limiters() *ratelimit.Registry { return g.limiters }

// Processor returns the bounded-concurrency processor.
func (g *Guard) Processor() *parallel.Processor { return g.processor }

// Cache returns the shared result cache.
func (g *Guard) Cache() *cache.MemoryCache { return g.store }

// Plugins returns the plugin registry.
func (g *Guard) Plugins() *plugin.Registry { return g.plugins }

// Health returns the health aggregator.
func (g *Guard) Health() *health.Aggregator { return g.checks }

// Breaker returns the circuit breaker for a resource, creating it with
// the configured policy on first use. The breaker is also registered as
// a health check so an open circuit surfaces in Health.
func (g *Guard) Breaker(resource string) *resilience.CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[resource]; ok {
		return cb
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             resource,
		FailureThreshold: g.cfg.Breaker.FailureThreshold,
		Cooldown:         g.cfg.Breaker.Cooldown.Std(),
		HalfOpenTrials:   g.cfg.Breaker.HalfOpenTrials,
		Logger:           g.log.Named("breaker"),
	})
	g.breakers[resource] = cb
	g.checks.Register("breaker:"+resource, health.BreakerChecker(resource, cb))
	return cb
}

// BreakerNames returns the resources with a breaker, unordered.
func (g *Guard) BreakerNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.breakers))
	for name := range g.breakers {
		names = append(names, name)
	}
	return names
}

// Memoizer builds a read-through memoizer over the guard's cache for
// the given class, honoring the configured TTL overrides.
func (g *Guard) Memoizer(class cache.Class) (*cache.Memoizer, error) {
	return cache.NewMemoizer(cache.MemoizerConfig{
		Cache:  g.store,
		Policy: g.cachePolicy(class),
		Logger: g.log.Named("cache"),
	})
}

func (g *Guard) cachePolicy(class cache.Class) cache.Policy {
	p := cache.Policy{Class: class, Disabled: g.cfg.Cache.Disabled}
	switch class {
	case cache.ClassHTTP:
		p.TTL = g.cfg.Cache.HTTPTTL.Std()
	case cache.ClassLLM:
		p.TTL = g.cfg.Cache.LLMTTL.Std()
	case cache.ClassQuery:
		p.TTL = g.cfg.Cache.QueryTTL.Std()
	}
	return p
}

// Executor builds the full protection pipeline for a resource: its rate
// limiter admits each attempt, its circuit breaker guards the call, and
// the configured retry policy wraps both.
func (g *Guard) Executor(resource string, opts ...resilience.ExecutorOption) *resilience.Executor {
	jitter := g.cfg.Retry.Jitter != nil && *g.cfg.Retry.Jitter

	base := []resilience.ExecutorOption{
		resilience.WithAdmission(g.limiters.Get(resource)),
		resilience.WithBreaker(g.Breaker(resource)),
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: g.cfg.Retry.MaxAttempts,
			BaseDelay:   g.cfg.Retry.BaseDelay.Std(),
			MaxDelay:    g.cfg.Retry.MaxDelay.Std(),
			Multiplier:  g.cfg.Retry.Multiplier,
			Jitter:      jitter,
		})),
	}
	return resilience.NewExecutor(append(base, opts...)...)
}

// Execute runs op through the resource's protection pipeline and
// records its duration and outcome.
func (g *Guard) Execute(ctx context.Context, resource string, op func(context.Context) error) error {
	executor := g.Executor(resource)

	start := time.Now()
	err := executor.Execute(ctx, op)
	g.observe(ctx, resource, time.Since(start), err)
	return err
}

func (g *Guard) observe(ctx context.Context, resource string, elapsed time.Duration, err error) {
	g.metrics.Observe(ctx, observe.MetricDurationSeconds, elapsed.Seconds())
	if err != nil {
		g.metrics.Incr(ctx, observe.MetricErrorsTotal, 1)
		g.log.Warn("guarded call failed",
			zap.String("resource", resource),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	}
}
