package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNewTokenBucket_Defaults(t *testing.T) {
	tb := NewTokenBucket(0, 0)

	if tb.Rate() != 1 {
		t.Errorf("Rate() = %f, want 1", tb.Rate())
	}
	if tb.Burst() != 10 {
		t.Errorf("Burst() = %d, want 10", tb.Burst())
	}
	if tb.Strategy() != StrategyTokenBucket {
		t.Errorf("Strategy() = %s, want %s", tb.Strategy(), StrategyTokenBucket)
	}
}

func TestTokenBucket_StartsFull(t *testing.T) {
	tb := NewTokenBucket(1, 5)

	if got := tb.Available(); got < 4.9 {
		t.Errorf("Available() = %f, want ~5", got)
	}
}

func TestTokenBucket_DeniesWhenEmpty(t *testing.T) {
	tb := NewTokenBucket(1, 5)

	if !tb.AllowN(5) {
		t.Fatal("AllowN(5) = false, want true for a full bucket")
	}
	if tb.AllowN(1) {
		t.Error("AllowN(1) = true, want false after draining the bucket")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	// 100 tokens/s so one token takes 10ms.
	tb := NewTokenBucket(100, 5)

	if !tb.AllowN(5) {
		t.Fatal("AllowN(5) = false, want true")
	}
	if tb.AllowN(1) {
		t.Fatal("AllowN(1) = true, want false for an empty bucket")
	}

	time.Sleep(15 * time.Millisecond)

	if !tb.AllowN(1) {
		t.Error("AllowN(1) = false, want true after one refill interval")
	}
	if tb.AllowN(5) {
		t.Error("AllowN(5) = true, want false; refill is gradual")
	}
}

func TestTokenBucket_RefillCapsAtBurst(t *testing.T) {
	tb := NewTokenBucket(1000, 3)

	time.Sleep(20 * time.Millisecond)

	if got := tb.Available(); got > 3 {
		t.Errorf("Available() = %f, want at most burst (3)", got)
	}
}

func TestTokenBucket_DenialDoesNotConsume(t *testing.T) {
	tb := NewTokenBucket(1, 5)

	if !tb.AllowN(4) {
		t.Fatal("AllowN(4) = false, want true")
	}
	if tb.AllowN(3) {
		t.Fatal("AllowN(3) = true, want false with one token left")
	}
	if !tb.AllowN(1) {
		t.Error("AllowN(1) = false, want true; the denied AllowN(3) must not consume tokens")
	}
}

func TestTokenBucket_WaitN(t *testing.T) {
	tb := NewTokenBucket(100, 2)
	tb.AllowN(2)

	start := time.Now()
	if err := tb.WaitN(context.Background(), 1); err != nil {
		t.Fatalf("WaitN() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("WaitN() took %v, want about 10ms", elapsed)
	}
}

func TestTokenBucket_WaitN_ContextCancelled(t *testing.T) {
	// 1 token per 100s, the wait would be effectively unbounded.
	tb := NewTokenBucket(0.01, 1)
	tb.AllowN(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tb.WaitN(ctx, 1)
	if err != context.DeadlineExceeded {
		t.Errorf("WaitN() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	tb := NewTokenBucket(0.01, 5)
	tb.AllowN(5)

	if tb.AllowN(1) {
		t.Fatal("AllowN(1) = true, want false before reset")
	}

	tb.Reset()

	if !tb.AllowN(5) {
		t.Error("AllowN(5) = false, want true after reset")
	}
}
