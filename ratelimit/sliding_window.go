package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow is a sliding window log limiter. It records the timestamp
// of every admission and admits new work while fewer than limit admissions
// fall inside the trailing window. Memory is bounded by the limit, not by
// total request volume.
type SlidingWindow struct {
	limit  int
	window time.Duration

	mu    sync.Mutex
	times []time.Time
}

// NewSlidingWindow creates a sliding window limiter admitting at most
// limit units per window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}

	return &SlidingWindow{
		limit:  limit,
		window: window,
		times:  make([]time.Time, 0, limit),
	}
}

// AllowN admits n units if the window has room, recording their timestamps.
func (sw *SlidingWindow) AllowN(n int) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.pruneLocked(now)

	if len(sw.times)+n > sw.limit {
		return false
	}

	for i := 0; i < n; i++ {
		sw.times = append(sw.times, now)
	}
	return true
}

// WaitN blocks until n units are admitted or ctx is done. On denial it
// sleeps until the oldest recorded admission leaves the window.
func (sw *SlidingWindow) WaitN(ctx context.Context, n int) error {
	for {
		if sw.AllowN(n) {
			return nil
		}

		sw.mu.Lock()
		wait := time.Millisecond
		if len(sw.times) > 0 {
			if d := time.Until(sw.times[0].Add(sw.window)); d > wait {
				wait = d
			}
		}
		sw.mu.Unlock()

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
func (sw *SlidingWindow) Available() float64 {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.pruneLocked(time.Now())
	return float64(sw.limit - len(sw.times))
}

// Reset clears all recorded admissions.
func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.times = sw.times[:0]
}

// Strategy returns StrategySlidingWindow.
func (sw *SlidingWindow) Strategy() Strategy {
	return StrategySlidingWindow
}

// Limit returns the maximum admissions per window.
func (sw *SlidingWindow) Limit() int {
	return sw.limit
}

// Window returns the window duration.
func (sw *SlidingWindow) Window() time.Duration {
	return sw.window
}

// pruneLocked drops timestamps older than the window. The slice is
// time-ordered, so this is a prefix trim.
func (sw *SlidingWindow) pruneLocked(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for i < len(sw.times) && !sw.times[i].After(cutoff) {
		i++
	}
	if i > 0 {
		sw.times = append(sw.times[:0], sw.times[i:]...)
	}
}

// Ensure SlidingWindow implements Limiter
var _ Limiter = (*SlidingWindow)(nil)
