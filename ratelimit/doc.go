// Package ratelimit provides admission control for outbound calls.
//
// Three interchangeable strategies decide, per named resource, whether a
// unit of work may proceed now:
//
//   - Token Bucket: a capacity of tokens refilled continuously at a fixed
//     rate. Allows bursts up to the capacity, then throttles to the rate.
//
//   - Sliding Window Log: tracks acceptance timestamps inside a moving
//     window. Accurate at window boundaries; memory bounded by the limit.
//
//   - Fixed Window Counter: a counter reset at fixed intervals. Cheap, but
//     up to twice the configured limit can pass across a window boundary.
//     Callers needing a strict bound should prefer the other strategies.
//
// All limiters share the Limiter contract: a non-blocking AllowN, a
// context-aware WaitN that suspends until capacity is granted, an
// Available estimate and a Reset. A Registry shares limiter state across
// call sites for the same logical resource:
//
//	reg := ratelimit.NewRegistry(ratelimit.RegistryConfig{})
//	reg.Register("openai", ratelimit.Config{Rate: 50, Burst: 10})
//
//	err := reg.Execute(ctx, "openai", func(ctx context.Context) error {
//	    return callAPI(ctx)
//	})
//
// Unknown names are created on first use with the registry's default
// configuration, so callers never need to pre-register.
package ratelimit
