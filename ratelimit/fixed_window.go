package ratelimit

import (
	"context"
	"sync"
	"time"
)

// FixedWindow is a fixed window counter limiter. The counter resets
// whenever a full window has elapsed since the window start.
//
// Known imprecision, inherent to the algorithm: a burst at the end of one
// window followed by a burst at the start of the next can admit up to twice
// the limit inside a single window-sized interval. Callers needing a strict
// bound should use SlidingWindow or TokenBucket.
type FixedWindow struct {
	limit  int
	window time.Duration

	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// NewFixedWindow creates a fixed window limiter admitting at most limit
// units per window.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}

	return &FixedWindow{
		limit:       limit,
		window:      window,
		windowStart: time.Now(),
	}
}

// AllowN admits n units if the current window has room.
func (fw *FixedWindow) AllowN(n int) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.rollLocked(time.Now())

	if fw.count+n > fw.limit {
		return false
	}

	fw.count += n
	return true
}

// WaitN blocks until n units are admitted or ctx is done. On denial it
// sleeps until the current window expires.
func (fw *FixedWindow) WaitN(ctx context.Context, n int) error {
	for {
		if fw.AllowN(n) {
			return nil
		}

		fw.mu.Lock()
		wait := fw.window - time.Since(fw.windowStart)
		fw.mu.Unlock()
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

// Available returns the number of admissions left in the current window.
func (fw *FixedWindow) Available() float64 {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.rollLocked(time.Now())
	return float64(fw.limit - fw.count)
}

// Reset clears the counter and starts a fresh window.
func (fw *FixedWindow) Reset() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.count = 0
	fw.windowStart = time.Now()
}

// Strategy returns StrategyFixedWindow.
func (fw *FixedWindow) Strategy() Strategy {
	return StrategyFixedWindow
}

// Limit returns the maximum admissions per window.
func (fw *FixedWindow) Limit() int {
	return fw.limit
}

// Window returns the window duration.
func (fw *FixedWindow) Window() time.Duration {
	return fw.window
}

func (fw *FixedWindow) rollLocked(now time.Time) {
	if now.Sub(fw.windowStart) >= fw.window {
		fw.count = 0
		fw.windowStart = now
	}
}

// Ensure FixedWindow implements Limiter
var _ Limiter = (*FixedWindow)(nil)
