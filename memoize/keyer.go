package memoize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jonwraymond/deepfreeze/fingerprint"
	"github.com/jonwraymond/deepfreeze/freeze"
)

// Keyer generates deterministic cache keys from a scope and an input value.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from scope and input.
	Key(scope string, input any) (string, error)
}

// FingerprintKeyer derives keys by freezing the input value. Structurally
// equal inputs key identically; unfreezable inputs surface the freeze error.
type FingerprintKeyer struct {
	cfg *freeze.Config
}

// NewFingerprintKeyer creates a keyer freezing under cfg. A nil cfg uses the
// shared package default.
func NewFingerprintKeyer(cfg *freeze.Config) *FingerprintKeyer {
	return &FingerprintKeyer{cfg: cfg}
}

// Key generates a deterministic cache key.
// Format: memo:<scope>:<digest>
// where digest is 16 hex characters: the hashed-mode fingerprint, or the
// first 8 bytes of SHA-256 over the canonical structural encoding.
func (k *FingerprintKeyer) Key(scope string, input any) (string, error) {
	fp, err := freeze.Freeze(input, k.cfg)
	if err != nil {
		return "", fmt.Errorf("memoize: failed to fingerprint input: %w", err)
	}

	var digest string
	if fp.IsStructural() {
		sum := sha256.Sum256(fingerprint.Canonical(fp.Node()))
		digest = hex.EncodeToString(sum[:8])
	} else {
		digest = fmt.Sprintf("%016x", fp.Hash())
	}

	return fmt.Sprintf("memo:%s:%s", scope, digest), nil
}

// Ensure FingerprintKeyer implements Keyer
var _ Keyer = (*FingerprintKeyer)(nil)
