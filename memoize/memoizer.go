package memoize

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/deepfreeze/observe"
)

// Func computes the result for one memoized input.
type Func func(ctx context.Context) ([]byte, error)

// Memoizer caches computation results keyed by input fingerprints.
//
// Contract:
//   - Concurrency: safe for concurrent use; concurrent calls for the same key
//     are collapsed into a single computation.
//   - Errors: computation errors are returned to every collapsed caller and
//     are never cached.
//   - Fallback: if the key cannot be derived or is invalid, the computation
//     runs uncached.
type Memoizer struct {
	cache   Cache
	keyer   Keyer
	policy  Policy
	metrics observe.Metrics
	group   singleflight.Group
}

// Option configures a Memoizer.
type Option func(*Memoizer)

// WithMetrics records cache lookups through m.
func WithMetrics(m observe.Metrics) Option {
	return func(mz *Memoizer) { mz.metrics = m }
}

// New creates a Memoizer. A nil keyer uses a FingerprintKeyer with default
// freeze configuration.
func New(cache Cache, keyer Keyer, policy Policy, opts ...Option) *Memoizer {
	if keyer == nil {
		keyer = NewFingerprintKeyer(nil)
	}
	m := &Memoizer{
		cache:   cache,
		keyer:   keyer,
		policy:  policy,
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do returns the memoized result for (scope, input), computing it at most
// once per key across concurrent callers. On any caching obstacle the
// computation runs directly.
func (m *Memoizer) Do(ctx context.Context, scope string, input any, compute Func) ([]byte, error) {
	if m.cache == nil || !m.policy.ShouldCache() || m.policy.SkipScope(scope) {
		return compute(ctx)
	}

	key, err := m.keyer.Key(scope, input)
	if err != nil {
		// Unfingerprintable input - compute without caching
		return compute(ctx)
	}
	if err := ValidateKey(key); err != nil {
		return compute(ctx)
	}

	meta := observe.OpMeta{Op: "memoize", Scope: scope}
	if cached, ok := m.cache.Get(ctx, key); ok {
		m.metrics.RecordLookup(ctx, meta, true)
		return cached, nil
	}
	m.metrics.RecordLookup(ctx, meta, false)

	v, err, _ := m.group.Do(key, func() (any, error) {
		// A collapsed caller may have populated the cache already.
		if cached, ok := m.cache.Get(ctx, key); ok {
			return cached, nil
		}

		result, err := compute(ctx)
		if err != nil {
			// Don't cache errors
			return nil, err
		}

		if ttl := m.policy.EffectiveTTL(0); ttl > 0 {
			_ = m.cache.Set(ctx, key, result, ttl)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate removes the cache entry for (scope, input), if any.
func (m *Memoizer) Invalidate(ctx context.Context, scope string, input any) error {
	if m.cache == nil {
		return ErrNilCache
	}
	key, err := m.keyer.Key(scope, input)
	if err != nil {
		return err
	}
	return m.cache.Delete(ctx, key)
}
