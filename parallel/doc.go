// Package parallel applies an operation to a sequence of inputs with a cap
// on simultaneously in-flight invocations, a per-call timeout and per-item
// error isolation: one item's failure never aborts its siblings.
//
// Results come back in input order, one slot per item, each carrying
// either the value or the error that settled it:
//
//	p := parallel.NewProcessor(parallel.Config{MaxConcurrent: 5})
//
//	results := parallel.Map(ctx, p, urls, func(ctx context.Context, u string) (Page, error) {
//	    return fetch(ctx, u)
//	})
//
// The processor keeps monotonically non-decreasing counters of settled
// items (total, succeeded, failed, timed out), reset only on explicit
// request. A per-call timeout cancels only that item's operation; there is
// no batch-wide deadline beyond the caller's ctx.
package parallel
