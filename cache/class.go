package cache

import "time"

// Class identifies the kind of result being cached. Each class carries
// its own default TTL since the payloads age at very different rates.
type Class string

const (
	// ClassHTTP caches fetched HTTP responses.
	ClassHTTP Class = "http"
	// ClassLLM caches model completions, which rarely change for a
	// given prompt.
	ClassLLM Class = "llm"
	// ClassQuery caches database query results.
	ClassQuery Class = "query"
)

// Default TTLs per class.
const (
	HTTPTTL  = 1 * time.Hour
	LLMTTL   = 7 * 24 * time.Hour
	QueryTTL = 5 * time.Minute
)

// TTL returns the default TTL for the class. Unknown classes get the
// HTTP default.
func (c Class) TTL() time.Duration {
	switch c {
	case ClassLLM:
		return LLMTTL
	case ClassQuery:
		return QueryTTL
	default:
		return HTTPTTL
	}
}

// Policy configures caching behavior for a Memoizer.
type Policy struct {
	// Class selects the default TTL. Default: ClassHTTP.
	Class Class

	// TTL overrides the class default when positive.
	TTL time.Duration

	// Disabled turns the memoizer into a pass-through.
	Disabled bool
}

// EffectiveTTL returns the TTL to use, falling back to the class default.
func (p Policy) EffectiveTTL() time.Duration {
	if p.Disabled {
		return 0
	}
	if p.TTL > 0 {
		return p.TTL
	}
	if p.Class == "" {
		return ClassHTTP.TTL()
	}
	return p.Class.TTL()
}
