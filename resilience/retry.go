package resilience

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"net"
	"syscall"
	"time"
)

// RetryConfig configures the retry behavior. A config is immutable once
// the Retry is constructed.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts including the initial
	// invocation.
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	// Default: 1 second
	BaseDelay time.Duration

	// MaxDelay caps the computed delay between retries.
	// Default: 60 seconds
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// Jitter perturbs each delay by a uniform random factor in [-25%, +25%]
	// to avoid synchronized retry storms.
	Jitter bool

	// RetryIf classifies an error as retryable.
	// Default: DefaultRetryable (transient connectivity and timeout errors).
	RetryIf func(err error) bool

	// Breaker, when set, wraps every attempt: admission is consulted before
	// each invocation and failures feed the breaker's counters.
	Breaker *CircuitBreaker

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry re-invokes failed operations with exponential backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry executor.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 60 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = DefaultRetryable
	}

	return &Retry{config: config}
}

// Execute runs the operation, retrying on retryable failures until success
// or attempts are exhausted, in which case the last observed error is
// returned. ErrCircuitOpen propagates immediately: retrying past an open
// circuit would only hammer a resource the breaker already declared down.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		var err error
		if r.config.Breaker != nil {
			err = r.config.Breaker.Execute(ctx, op)
		} else {
			err = op(ctx)
		}

		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, ErrCircuitOpen) {
			return err
		}
		if !r.config.RetryIf(err) {
			return err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		delay := r.Delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Delay returns the backoff delay after the given zero-based attempt.
func (r *Retry) Delay(attempt int) time.Duration {
	backoff := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt))
	if backoff > float64(r.config.MaxDelay) {
		backoff = float64(r.config.MaxDelay)
	}

	if r.config.Jitter {
		// Uniform in [-25%, +25%].
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		backoff += backoff * 0.25 * (rand.Float64()*2 - 1)
		if backoff < 0 {
			backoff = 0
		}
	}

	return time.Duration(backoff)
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

// DefaultRetryable classifies transient connectivity and timeout errors as
// retryable and everything else as fatal.
func DefaultRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrCircuitOpen):
		return false
	case errors.Is(err, ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
