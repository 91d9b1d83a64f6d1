// Package health provides boolean health checks for agent components.
//
// A Checker reports whether one component is functioning; the
// Aggregator runs every registered checker in parallel and reduces
// them to a single overall answer. A component is either healthy or it
// is not; a check that errors or times out is unhealthy.
//
//	agg := health.NewAggregator()
//	agg.Register("storage", health.CheckerFunc("storage", db.Ping))
//	agg.Register("breaker", health.BreakerChecker("llm", breaker))
//
//	if !agg.Healthy(ctx) {
//	    log.Warn("degraded", zap.Any("checks", agg.CheckAll(ctx)))
//	}
//
// Handler exposes the same answer over HTTP as JSON for probes.
package health
