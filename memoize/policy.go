package memoize

import "time"

// Policy configures memoization behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when none is specified.
	// If zero, memoization is disabled by default.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration

	// VolatileScopes lists scopes whose inputs depend on state a fingerprint
	// cannot capture (clocks, counters, external resources). Lookups in these
	// scopes always recompute.
	VolatileScopes []string
}

// DefaultPolicy returns the default memoization policy.
// DefaultTTL: 5 minutes, MaxTTL: 1 hour.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     1 * time.Hour,
	}
}

// NoCachePolicy returns a policy that disables memoization entirely.
func NoCachePolicy() Policy {
	return Policy{
		DefaultTTL: 0,
		MaxTTL:     0,
	}
}

// ShouldCache returns true if memoization is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// SkipScope returns true if the scope is listed as volatile.
func (p Policy) SkipScope(scope string) bool {
	for _, s := range p.VolatileScopes {
		if s == scope {
			return true
		}
	}
	return false
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	// Use default if no override (or negative override)
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	// Clamp to MaxTTL if set
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
