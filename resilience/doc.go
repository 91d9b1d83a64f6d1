// Package resilience provides failure-isolation primitives for outbound
// calls: circuit breaking, retry with backoff, bulkhead isolation and
// timeouts, plus an Executor composing them.
//
// # Patterns
//
//   - Circuit Breaker: stops calling a failing downstream dependency after
//     a run of consecutive failures, then probes recovery after a cooldown.
//
//   - Retry: re-invokes a failed operation with exponential backoff and
//     jitter until success, exhaustion or a non-retryable error.
//
//   - Bulkhead: caps simultaneously in-flight operations to prevent
//     resource exhaustion.
//
//   - Timeout: bounds a single operation's execution time.
//
// # Composition
//
// Each pattern exposes an Execute method that wraps an arbitrary
// operation. The Executor chains them explicitly:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithAdmission(limiter),
//	    resilience.WithBreaker(breaker),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
//
// Admission and circuit state are re-checked before every retry attempt. A
// rejection by either is an admission decision, not a downstream failure:
// it is never counted against the breaker and never retried.
package resilience
