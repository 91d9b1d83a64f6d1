package parallel

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/lineance/moguard/resilience"
)

// Config configures a Processor.
type Config struct {
	// MaxConcurrent is the maximum number of in-flight operations.
	// Default: 5
	MaxConcurrent int

	// Timeout bounds each individual operation.
	// Default: 300 seconds
	Timeout time.Duration

	// Logger records per-item failures. Default: no-op.
	Logger *zap.Logger
}

// Processor runs operations over batches of items with bounded
// concurrency. The concurrency gate is acquired before each item's
// invocation and released when the item settles, on every exit path.
type Processor struct {
	config Config
	sem    *semaphore.Weighted
	log    *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// Stats are the processor's lifetime counters. They only grow, except
// through ResetStats.
type Stats struct {
	Total     int64
	Succeeded int64
	Failed    int64
	TimedOut  int64
}

// Result is one item's outcome. Exactly one of Value or Err is
// meaningful; Err is nil iff the operation succeeded.
type Result[R any] struct {
	Value R
	Err   error
}

// TimedOut reports whether the slot was settled by the per-call timeout.
func (r Result[R]) TimedOut() bool {
	return errors.Is(r.Err, resilience.ErrTimeout)
}

// NewProcessor creates a processor.
func NewProcessor(config Config) *Processor {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 300 * time.Second
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Processor{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.MaxConcurrent)),
		log:    config.Logger,
	}
}

// Stats returns a copy of the processor's counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// ResetStats zeroes the counters.
func (p *Processor) ResetStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = Stats{}
}

// MaxConcurrent returns the concurrency cap.
func (p *Processor) MaxConcurrent() int {
	return p.config.MaxConcurrent
}

// Map applies fn to every item with bounded concurrency and returns one
// result per item, in input order. A failed or timed-out item settles its
// own slot and nothing else; the batch always completes.
func Map[T, R any](ctx context.Context, p *Processor, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}

	p.mu.Lock()
	p.stats.Total += int64(len(items))
	p.mu.Unlock()

	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()

			if err := p.sem.Acquire(ctx, 1); err != nil {
				results[i] = Result[R]{Err: err}
				p.settle(i, err)
				return
			}
			defer p.sem.Release(1)

			v, err := runOne(ctx, p.config.Timeout, item, fn)
			results[i] = Result[R]{Value: v, Err: err}
			p.settle(i, err)
		}(i, item)
	}
	wg.Wait()

	return results
}

// MapBatches partitions items into sequential batches of batchSize
// (defaulting to the concurrency cap), fully awaiting each batch before
// starting the next, and concatenates results in order.
func MapBatches[T, R any](ctx context.Context, p *Processor, items []T, batchSize int, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = p.config.MaxConcurrent
	}

	results := make([]Result[R], 0, len(items))
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		results = append(results, Map(ctx, p, items[start:end], fn)...)
	}
	return results
}

// runOne invokes fn under the per-call timeout. On expiry the slot is
// settled with ErrTimeout; the operation's goroutine is left to observe
// its context and wind down.
func runOne[T, R any](ctx context.Context, timeout time.Duration, item T, fn func(context.Context, T) (R, error)) (R, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value R
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		v, err := fn(callCtx, item)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-callCtx.Done():
		var zero R
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return zero, resilience.ErrTimeout
		}
		return zero, callCtx.Err()
	}
}

func (p *Processor) settle(i int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case err == nil:
		p.stats.Succeeded++
	case errors.Is(err, resilience.ErrTimeout):
		p.stats.TimedOut++
		p.log.Warn("operation timed out", zap.Int("item", i))
	default:
		p.stats.Failed++
		p.log.Warn("operation failed", zap.Int("item", i), zap.Error(err))
	}
}
