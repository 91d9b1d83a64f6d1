package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket is a token bucket limiter. Tokens refill continuously at a
// fixed rate up to the burst capacity; acquiring consumes them.
type TokenBucket struct {
	rate  float64
	burst int

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewTokenBucket creates a token bucket holding burst tokens that refills
// at rate tokens per second. The bucket starts full.
func NewTokenBucket(rate float64, burst int) *TokenBucket {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 10
	}

	return &TokenBucket{
		rate:       rate,
		burst:      burst,
		tokens:     float64(burst),
		lastRefill: time.Now(),
	}
}

// AllowN consumes n tokens if available and reports whether it did.
func (tb *TokenBucket) AllowN(n int) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()

	if tb.tokens >= float64(n) {
		tb.tokens -= float64(n)
		return true
	}

	return false
}

// WaitN blocks until n tokens are acquired or ctx is done. On each denial
// it sleeps for the time the refill needs to produce the missing tokens.
func (tb *TokenBucket) WaitN(ctx context.Context, n int) error {
	for {
		if tb.AllowN(n) {
			return nil
		}

		tb.mu.Lock()
		missing := float64(n) - tb.tokens
		tb.mu.Unlock()

		wait := time.Duration(missing / tb.rate * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Available returns the current token count after refill.
func (tb *TokenBucket) Available() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	return tb.tokens
}

// Reset restores the bucket to full capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = float64(tb.burst)
	tb.lastRefill = time.Now()
}

// Strategy returns StrategyTokenBucket.
func (tb *TokenBucket) Strategy() Strategy {
	return StrategyTokenBucket
}

// Rate returns the refill rate in tokens per second.
func (tb *TokenBucket) Rate() float64 {
	return tb.rate
}

// Burst returns the bucket capacity.
func (tb *TokenBucket) Burst() int {
	return tb.burst
}

func (tb *TokenBucket) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.lastRefill = now

	tb.tokens += elapsed.Seconds() * tb.rate
	if tb.tokens > float64(tb.burst) {
		tb.tokens = float64(tb.burst)
	}
}

// Ensure TokenBucket implements Limiter
var _ Limiter = (*TokenBucket)(nil)
