package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Strategy identifies an admission-control algorithm.
type Strategy string

// Supported strategies.
const (
	StrategyTokenBucket   Strategy = "token_bucket"
	StrategySlidingWindow Strategy = "sliding_window"
	StrategyFixedWindow   Strategy = "fixed_window"
)

// Config configures a limiter. Fields that do not apply to the selected
// strategy are ignored.
type Config struct {
	// Strategy selects the algorithm.
	// Default: StrategyTokenBucket
	Strategy Strategy

	// Rate is the token refill rate in tokens per second (token bucket).
	// Default: 1
	Rate float64

	// Burst is the bucket capacity (token bucket).
	// Default: 10
	Burst int

	// Limit is the maximum number of admissions per window (window
	// strategies).
	// Default: 60
	Limit int

	// Window is the window duration (window strategies).
	// Default: 1 minute
	Window time.Duration
}

func (c *Config) defaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyTokenBucket
	}
	if c.Rate <= 0 {
		c.Rate = 1
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
	if c.Limit <= 0 {
		c.Limit = 60
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
}

// Limiter decides whether a unit of work may proceed now.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - AllowN never blocks; WaitN suspends cooperatively and honors ctx.
// - Available is an estimate; it may move between the call and a later AllowN.
type Limiter interface {
	// AllowN reports whether n units are admitted now, consuming them if so.
	AllowN(n int) bool

	// WaitN blocks until n units are admitted or ctx is done. There is no
	// bound on the total wait beyond ctx; cancellation is the caller's job.
	WaitN(ctx context.Context, n int) error

	// Available returns the current capacity estimate.
	Available() float64

	// Reset restores the limiter to its initial full capacity.
	Reset()

	// Strategy returns the algorithm behind this limiter.
	Strategy() Strategy
}

// New creates a limiter for the configured strategy.
func New(cfg Config) (Limiter, error) {
	cfg.defaults()

	switch cfg.Strategy {
	case StrategyTokenBucket:
		return NewTokenBucket(cfg.Rate, cfg.Burst), nil
	case StrategySlidingWindow:
		return NewSlidingWindow(cfg.Limit, cfg.Window), nil
	case StrategyFixedWindow:
		return NewFixedWindow(cfg.Limit, cfg.Window), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
}

// Allow is shorthand for l.AllowN(1).
func Allow(l Limiter) bool {
	return l.AllowN(1)
}

// Wait is shorthand for l.WaitN(ctx, 1).
func Wait(ctx context.Context, l Limiter) error {
	return l.WaitN(ctx, 1)
}

// Execute admits one unit of work through l, waiting for capacity, then
// runs op. The operation's result is passed through unmodified.
func Execute(ctx context.Context, l Limiter, op func(context.Context) error) error {
	if err := l.WaitN(ctx, 1); err != nil {
		return err
	}
	return op(ctx)
}

// TryExecute runs op only if one unit is admitted immediately; otherwise it
// returns ErrLimitExceeded without invoking op.
func TryExecute(ctx context.Context, l Limiter, op func(context.Context) error) error {
	if !l.AllowN(1) {
		return ErrLimitExceeded
	}
	return op(ctx)
}
