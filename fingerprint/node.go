package fingerprint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the structural category of a node.
type Kind uint8

const (
	// KindScalar is a leaf value.
	KindScalar Kind = iota + 1
	// KindSequence is an order-preserving composite.
	KindSequence
	// KindSet is an order-erasing composite.
	KindSet
	// KindRecord is a keyed composite of ordered key/value pairs.
	KindRecord
	// KindCycle marks a back-reference to an ancestor on the freeze path.
	KindCycle
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindRecord:
		return "record"
	case KindCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Node is one vertex of a structural fingerprint.
//
// Contract:
//   - Immutability: nodes must be treated as immutable after construction.
//   - Determinism: two structurally equal trees produce identical canonical
//     encodings regardless of how they were built.
type Node interface {
	// Kind returns the structural category of this node.
	Kind() Kind

	// String returns a compact human-readable rendering.
	String() string

	// appendCanonical appends the canonical encoding to dst.
	// Unexported: the node vocabulary is closed.
	appendCanonical(dst []byte) []byte
}

// Scalar is a leaf node. Value is one of: nil, bool, int64, uint64, float64,
// string, []byte, or Opaque. Other values are tolerated but encode through
// their formatted representation, which is deterministic only if their String
// output is.
type Scalar struct {
	Value any
}

// Opaque is the formatted stand-in for a scalar produced outside the
// documented value set. It keeps its own canonical tag, so a tree decoded
// from the wire stays Equal to the tree that was marshaled even when the
// original Go value cannot be reconstructed.
type Opaque string

// Kind returns KindScalar.
func (s Scalar) Kind() Kind { return KindScalar }

func (s Scalar) String() string {
	switch v := s.Value.(type) {
	case nil:
		return "nil"
	case string:
		return v
	case []byte:
		return fmt.Sprintf("0x%x", v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Sequence is an order-preserving composite node.
type Sequence struct {
	Elems []Node
}

// Kind returns KindSequence.
func (s Sequence) Kind() Kind { return KindSequence }

func (s Sequence) String() string {
	return "(" + joinNodes(s.Elems) + ")"
}

// Set is an order-erasing composite node. Elements are held sorted by
// canonical encoding so that equality and iteration order never depend on
// the order of construction.
type Set struct {
	elems []Node
}

// NewSet builds a Set from elems. The slice is copied and sorted; duplicate
// elements are preserved (multiset semantics).
func NewSet(elems []Node) Set {
	sorted := make([]Node, len(elems))
	copy(sorted, elems)
	sort.Slice(sorted, func(i, j int) bool {
		return string(Canonical(sorted[i])) < string(Canonical(sorted[j]))
	})
	return Set{elems: sorted}
}

// Kind returns KindSet.
func (s Set) Kind() Kind { return KindSet }

// Elems returns the elements in canonical order. The returned slice is
// shared; callers must not mutate it.
func (s Set) Elems() []Node { return s.elems }

// Len returns the number of elements.
func (s Set) Len() int { return len(s.elems) }

// Contains reports whether the set holds an element structurally equal to n.
func (s Set) Contains(n Node) bool {
	want := string(Canonical(n))
	i := sort.Search(len(s.elems), func(i int) bool {
		return string(Canonical(s.elems[i])) >= want
	})
	return i < len(s.elems) && string(Canonical(s.elems[i])) == want
}

func (s Set) String() string {
	return "{" + joinNodes(s.elems) + "}"
}

// Pair is one key/value entry of a Record.
type Pair struct {
	Key   Node
	Value Node
}

// Record is a keyed composite node. Pair order is significant and is fixed
// by the producer (canonically key-sorted unless an adapter requested
// insertion order).
type Record struct {
	Pairs []Pair
}

// Kind returns KindRecord.
func (r Record) Kind() Kind { return KindRecord }

// Get returns the value for the first key structurally equal to key.
func (r Record) Get(key Node) (Node, bool) {
	want := string(Canonical(key))
	for _, p := range r.Pairs {
		if string(Canonical(p.Key)) == want {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the key nodes in pair order.
func (r Record) Keys() []Node {
	keys := make([]Node, len(r.Pairs))
	for i, p := range r.Pairs {
		keys[i] = p.Key
	}
	return keys
}

func (r Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range r.Pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Key.String())
		b.WriteString(": ")
		b.WriteString(p.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Cycle marks a reference to an ancestor of this node on the freeze path.
// Delta is the number of levels between this node and that ancestor, so
// isomorphic cyclic shapes produce identical markers at any absolute depth.
type Cycle struct {
	Delta int
}

// Kind returns KindCycle.
func (c Cycle) Kind() Kind { return KindCycle }

func (c Cycle) String() string {
	return "cycle(" + strconv.Itoa(c.Delta) + ")"
}

func joinNodes(nodes []Node) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.String())
	}
	return b.String()
}
