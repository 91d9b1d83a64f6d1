package resilience

import (
	"context"
	"time"
)

// Admitter grants permission for a unit of work to proceed. It is
// satisfied by the ratelimit package's limiters and registry entries.
type Admitter interface {
	WaitN(ctx context.Context, n int) error
}

// Executor composes resilience patterns around a single operation.
type Executor struct {
	admitter Admitter
	breaker  *CircuitBreaker
	retry    *Retry
	bulkhead *Bulkhead
	timeout  *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithAdmission gates every attempt behind the admission controller.
func WithAdmission(a Admitter) ExecutorOption {
	return func(e *Executor) {
		e.admitter = a
	}
}

// WithBreaker routes every attempt through the circuit breaker.
func WithBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.breaker = cb
	}
}

// WithRetry adds retry logic around the attempt pipeline.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithBulkhead caps concurrent executions of the whole pipeline.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithTimeout bounds each individual attempt.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutConfig bounds each individual attempt with a custom config.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Execute runs the operation through all configured patterns.
//
// Per attempt the order is: admission wait, circuit check, timeout-bounded
// invocation. Retry wraps the attempt pipeline so admission and circuit
// state are consulted again before every attempt, and the bulkhead caps
// the whole call, retries included. An ErrCircuitOpen rejection is not fed
// back into the breaker and is never retried.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	// Build the attempt pipeline from the inside out.
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.breaker.Execute(ctx, inner)
		}
	}

	if e.admitter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			if err := e.admitter.WaitN(ctx, 1); err != nil {
				return err
			}
			return inner(ctx)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
