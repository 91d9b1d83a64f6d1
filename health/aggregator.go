package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout is the maximum time to wait for all checks.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxParallel caps how many checks run at once. Default: unlimited.
	MaxParallel int

	// Logger records failed checks. Default: no-op.
	Logger *zap.Logger
}

// Aggregator combines multiple health checkers into one overall answer.
type Aggregator struct {
	config AggregatorConfig
	log    *zap.Logger

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string // registration order
}

// NewAggregator creates a health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	cfg := AggregatorConfig{Timeout: 10 * time.Second}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Aggregator{
		config:   cfg,
		log:      cfg.Logger,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker under the given name, replacing any previous
// checker with that name.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// Unregister removes a checker.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.checkers, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// CheckerNames returns registered names in registration order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return a.runCheck(ctx, name, checker), nil
}

// CheckAll runs every registered check in parallel and returns a result
// per name. A check that exceeds the aggregator timeout is reported
// unhealthy with ErrCheckTimeout; the batch itself always returns.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make(map[string]Checker, len(a.checkers))
	for name, checker := range a.checkers {
		checkers[name] = checker
	}
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	if a.config.MaxParallel > 0 {
		g.SetLimit(a.config.MaxParallel)
	}

	for name, checker := range checkers {
		name, checker := name, checker
		g.Go(func() error {
			result := a.runCheck(ctx, name, checker)
			mu.Lock()
			results[name] = result
			mu.Unlock()
			// Unhealthy results are collected, never propagated, so
			// one failure cannot cancel the sibling checks.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Healthy runs all checks and reports whether every one passed. No
// registered checkers counts as healthy.
func (a *Aggregator) Healthy(ctx context.Context) bool {
	return Overall(a.CheckAll(ctx))
}

// Overall reduces a result set to a single boolean: healthy only when
// every check passed.
func Overall(results map[string]Result) bool {
	for _, r := range results {
		if !r.Healthy {
			return false
		}
	}
	return true
}

func (a *Aggregator) runCheck(ctx context.Context, name string, checker Checker) Result {
	start := time.Now()

	errCh := make(chan error, 1)
	go func() {
		errCh <- checker.Check(ctx)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ErrCheckTimeout
	}

	result := Result{
		Healthy:   err == nil,
		Error:     err,
		Duration:  time.Since(start),
		CheckedAt: start,
	}
	if err != nil {
		a.log.Warn("health check failed", zap.String("check", name), zap.Error(err))
	}
	return result
}
