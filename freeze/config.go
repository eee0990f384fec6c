package freeze

import (
	"sync"

	"github.com/jonwraymond/deepfreeze/fingerprint"
	"github.com/jonwraymond/deepfreeze/observe"
)

// Default configuration values.
const (
	// DefaultRecursionLimit bounds traversal depth. A limit <= 0 disables the
	// bound entirely.
	DefaultRecursionLimit = 50

	// DefaultLogWidth bounds the value preview attached to per-node debug
	// log records.
	DefaultLogWidth = 250
)

// Config owns everything that shapes a fingerprint: output mode, hasher,
// exclusion policy, adapter registry, and the cross-call memo cache. A Config
// is typically created once and reused; reusing it lets permanent values
// (functions, types, versioned descriptors) be fingerprinted once and served
// from the memo cache afterwards.
//
// Contract:
//   - Concurrency: NOT safe for concurrent use. The memo cache is plain
//     mutable state; callers running Freeze from multiple goroutines against
//     one Config must serialize externally.
//   - Determinism: two Configs with equal settings produce equal fingerprints
//     for structurally equal inputs, in the same or different processes.
type Config struct {
	// RecursionLimit fails traversal past this depth with ErrRecursionLimit.
	// <= 0 means unbounded.
	RecursionLimit int

	// UseHash selects hashed (true) or structural (false) output. The mode is
	// fixed for a whole Freeze call; hashed and structural composition are
	// never mixed within one call tree.
	UseHash bool

	// Hasher folds bytes in hashed mode. Ignored in structural mode.
	// Nil falls back to XXHash.
	Hasher Hasher

	// IgnoreMapOrder freezes maps as order-erased sets of key/value pairs
	// instead of canonically key-sorted records.
	IgnoreMapOrder bool

	// LogWidth truncates value previews in debug logs. <= 0 uses
	// DefaultLogWidth.
	LogWidth int

	// Logger, when set, receives one debug record per visited node.
	Logger observe.Logger

	// Policy is the exclusion rule set consulted before descending into
	// values, fields, and bindings. Nil means no exclusions.
	Policy *Policy

	// Registry resolves types to adapters. Nil falls back to the shared
	// default registry.
	Registry *Registry

	// memo caches fingerprints of permanent, proven-immutable values by
	// identity. It persists until ClearMemo.
	memo map[identity]fingerprint.Fingerprint
}

// New returns a Config with hashed output, the default policy, and the
// default adapter registry.
func New() *Config {
	return &Config{
		RecursionLimit: DefaultRecursionLimit,
		UseHash:        true,
		Hasher:         XXHash,
		LogWidth:       DefaultLogWidth,
		Policy:         DefaultPolicy(),
		Registry:       DefaultRegistry(),
		memo:           make(map[identity]fingerprint.Fingerprint),
	}
}

// NewStructural returns a Config producing structural fingerprints, the form
// consumed by the diff package.
func NewStructural() *Config {
	cfg := New()
	cfg.UseHash = false
	return cfg
}

// ClearMemo empties the memo cache. Call it when value identities may have
// been recycled by the allocator, or to release memory.
func (c *Config) ClearMemo() {
	c.memo = make(map[identity]fingerprint.Fingerprint)
}

// MemoLen reports the number of memoized fingerprints.
func (c *Config) MemoLen() int {
	return len(c.memo)
}

func (c *Config) memoLoad(id identity) (fingerprint.Fingerprint, bool) {
	f, ok := c.memo[id]
	return f, ok
}

func (c *Config) memoStore(id identity, f fingerprint.Fingerprint) {
	if c.memo == nil {
		c.memo = make(map[identity]fingerprint.Fingerprint)
	}
	c.memo[id] = f
}

func (c *Config) hasher() Hasher {
	if c.Hasher != nil {
		return c.Hasher
	}
	return XXHash
}

func (c *Config) registry() *Registry {
	if c.Registry != nil {
		return c.Registry
	}
	return DefaultRegistry()
}

func (c *Config) logWidth() int {
	if c.LogWidth > 0 {
		return c.LogWidth
	}
	return DefaultLogWidth
}

var (
	packageConfig     *Config
	packageConfigOnce sync.Once
)

// defaultConfig is the Config used when Freeze receives nil. Shared process
// state: the documented single-writer contract applies to it too.
func defaultConfig() *Config {
	packageConfigOnce.Do(func() {
		packageConfig = New()
	})
	return packageConfig
}
