package health

import (
	"context"
	"fmt"
	"runtime"

	"github.com/lineance/moguard/resilience"
)

// BreakerChecker reports a circuit breaker's state as health: the
// component is unhealthy while its circuit is open. A half-open circuit
// is considered healthy since it is already probing recovery.
func BreakerChecker(name string, cb *resilience.CircuitBreaker) Checker {
	return CheckerFunc(name, func(context.Context) error {
		if snap := cb.Snapshot(); snap.State == resilience.StateOpen {
			return fmt.Errorf("health: circuit %q is open after %d consecutive failures",
				snap.Name, snap.ConsecutiveFailures)
		}
		return nil
	})
}

// RuntimeCheckerConfig configures the process runtime checker.
type RuntimeCheckerConfig struct {
	// MaxGoroutines marks the process unhealthy above this count.
	// Default: 10000
	MaxGoroutines int

	// MaxHeapBytes marks the process unhealthy above this heap
	// allocation. Default: 0 (no heap limit)
	MaxHeapBytes uint64
}

// RuntimeChecker watches goroutine count and heap usage as a proxy for
// runaway work (leaked retries, unbounded fan-out).
func RuntimeChecker(config RuntimeCheckerConfig) Checker {
	if config.MaxGoroutines <= 0 {
		config.MaxGoroutines = 10000
	}

	return CheckerFunc("runtime", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if n := runtime.NumGoroutine(); n > config.MaxGoroutines {
			return fmt.Errorf("health: %d goroutines, limit %d", n, config.MaxGoroutines)
		}

		if config.MaxHeapBytes > 0 {
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			if stats.HeapAlloc > config.MaxHeapBytes {
				return fmt.Errorf("health: heap %d bytes, limit %d", stats.HeapAlloc, config.MaxHeapBytes)
			}
		}
		return nil
	})
}
