// Package cache provides TTL caching for agent operation results.
//
// It provides a Cache interface with a memory implementation, per-class
// TTL defaults (HTTP responses, LLM completions, query results),
// deterministic SHA-256 key derivation, and a singleflight-deduplicated
// Memoizer for wrapping expensive calls.
package cache
