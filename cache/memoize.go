package cache

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Memoizer wraps expensive calls with read-through caching. Concurrent
// calls for the same key are collapsed into a single in-flight
// execution; the other callers wait and share its result.
type Memoizer struct {
	cache  Cache
	keyer  Keyer
	policy Policy
	log    *zap.Logger
	group  singleflight.Group
}

// MemoizerConfig configures a Memoizer.
type MemoizerConfig struct {
	// Cache receives the results. Required.
	Cache Cache

	// Keyer derives cache keys from call inputs. Default: DefaultKeyer.
	Keyer Keyer

	// Policy selects the TTL. Default: ClassHTTP TTL.
	Policy Policy

	// Logger records cache activity. Default: no-op.
	Logger *zap.Logger
}

// NewMemoizer creates a memoizer over the given cache.
func NewMemoizer(config MemoizerConfig) (*Memoizer, error) {
	if config.Cache == nil {
		return nil, ErrNilCache
	}
	if config.Keyer == nil {
		config.Keyer = NewDefaultKeyer()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Memoizer{
		cache:  config.Cache,
		keyer:  config.Keyer,
		policy: config.Policy,
		log:    config.Logger,
	}, nil
}

// Do returns the cached result for (name, input) or invokes fn, caches
// its result, and returns it. Errors are never cached. A disabled
// policy makes Do invoke fn directly.
func (m *Memoizer) Do(ctx context.Context, name string, input any, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	if m.policy.Disabled {
		return fn(ctx)
	}

	key, err := m.keyer.Key(name, input)
	if err != nil {
		return nil, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	if value, ok := m.cache.Get(ctx, key); ok {
		m.log.Debug("cache hit", zap.String("key", key))
		return value, nil
	}

	v, err, shared := m.group.Do(key, func() (any, error) {
		// A leader may have filled the cache between our miss and
		// this call winning the flight.
		if value, ok := m.cache.Get(ctx, key); ok {
			return value, nil
		}

		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		if err := m.cache.Set(ctx, key, value, m.policy.EffectiveTTL()); err != nil {
			m.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		m.log.Debug("cache flight shared", zap.String("key", key))
	}
	return v.([]byte), nil
}

// Forget drops the cached result for (name, input).
func (m *Memoizer) Forget(ctx context.Context, name string, input any) error {
	key, err := m.keyer.Key(name, input)
	if err != nil {
		return err
	}
	m.group.Forget(key)
	return m.cache.Delete(ctx, key)
}
