package fingerprint

import "strconv"

// Fingerprint is the output of one freeze call: either an opaque 64-bit hash
// or a structural node tree, never both. The zero Fingerprint is hashed zero.
type Fingerprint struct {
	hash uint64
	node Node
}

// Hashed wraps an opaque hash value.
func Hashed(h uint64) Fingerprint {
	return Fingerprint{hash: h}
}

// Structural wraps a node tree.
func Structural(n Node) Fingerprint {
	return Fingerprint{node: n}
}

// IsStructural reports whether the fingerprint carries a node tree.
func (f Fingerprint) IsStructural() bool { return f.node != nil }

// Hash returns the opaque hash. Zero for structural fingerprints.
func (f Fingerprint) Hash() uint64 { return f.hash }

// Node returns the structural tree, or nil for hashed fingerprints.
func (f Fingerprint) Node() Node { return f.node }

// Equal reports fingerprint equality. A hashed and a structural fingerprint
// are never equal, even if derived from the same value.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if f.IsStructural() != other.IsStructural() {
		return false
	}
	if f.IsStructural() {
		return Equal(f.node, other.node)
	}
	return f.hash == other.hash
}

func (f Fingerprint) String() string {
	if f.IsStructural() {
		return f.node.String()
	}
	return "0x" + strconv.FormatUint(f.hash, 16)
}
