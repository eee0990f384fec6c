package freeze

import (
	"bytes"
	"encoding/binary"

	"github.com/jonwraymond/deepfreeze/fingerprint"
)

// composer is the composition-primitive interface. Two implementations
// exist, hashed and structural, selected once per Freeze call from
// Config.UseHash; they are never mixed within one call tree.
type composer interface {
	// scalar builds a leaf from a normalized scalar value.
	scalar(v any) fingerprint.Fingerprint

	// cycle builds a back-reference marker with a relative depth.
	cycle(delta int) fingerprint.Fingerprint

	// sequence merges children order-preserving (ordered=true) or
	// order-erasing (ordered=false).
	sequence(children []fingerprint.Fingerprint, ordered bool) fingerprint.Fingerprint

	// record merges key/value pairs in the given order. With writeKeys=false
	// the keys are omitted: the adapter guarantees a fixed key schema, so
	// values alone keep full distinguishing power.
	record(pairs []pair, writeKeys bool) fingerprint.Fingerprint

	// combine merges two sibling parts of one adapter's output,
	// left-associatively.
	combine(a, b fingerprint.Fingerprint) fingerprint.Fingerprint

	// keyLess is the canonical ordering used to sort record pairs.
	keyLess(a, b fingerprint.Fingerprint) bool
}

type pair struct {
	key   fingerprint.Fingerprint
	value fingerprint.Fingerprint
}

func newComposer(cfg *Config) composer {
	if cfg.UseHash {
		return &hashedComposer{h: cfg.hasher()}
	}
	return structuralComposer{}
}

// normalizeScalar widens Go scalar values onto the fingerprint vocabulary.
func normalizeScalar(v any) any {
	switch n := v.(type) {
	case nil, bool, int64, uint64, float64, string, []byte:
		return n
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uintptr:
		return uint64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// structuralComposer builds full node trees.
type structuralComposer struct{}

func (structuralComposer) scalar(v any) fingerprint.Fingerprint {
	return fingerprint.Structural(fingerprint.Scalar{Value: normalizeScalar(v)})
}

func (structuralComposer) cycle(delta int) fingerprint.Fingerprint {
	return fingerprint.Structural(fingerprint.Cycle{Delta: delta})
}

func (structuralComposer) sequence(children []fingerprint.Fingerprint, ordered bool) fingerprint.Fingerprint {
	nodes := make([]fingerprint.Node, len(children))
	for i, c := range children {
		nodes[i] = c.Node()
	}
	if ordered {
		return fingerprint.Structural(fingerprint.Sequence{Elems: nodes})
	}
	return fingerprint.Structural(fingerprint.NewSet(nodes))
}

func (structuralComposer) record(pairs []pair, writeKeys bool) fingerprint.Fingerprint {
	if !writeKeys {
		nodes := make([]fingerprint.Node, len(pairs))
		for i, p := range pairs {
			nodes[i] = p.value.Node()
		}
		return fingerprint.Structural(fingerprint.Sequence{Elems: nodes})
	}
	out := make([]fingerprint.Pair, len(pairs))
	for i, p := range pairs {
		out[i] = fingerprint.Pair{Key: p.key.Node(), Value: p.value.Node()}
	}
	return fingerprint.Structural(fingerprint.Record{Pairs: out})
}

func (structuralComposer) combine(a, b fingerprint.Fingerprint) fingerprint.Fingerprint {
	return fingerprint.Structural(fingerprint.Sequence{Elems: []fingerprint.Node{a.Node(), b.Node()}})
}

func (structuralComposer) keyLess(a, b fingerprint.Fingerprint) bool {
	return bytes.Compare(fingerprint.Canonical(a.Node()), fingerprint.Canonical(b.Node())) < 0
}

// Domain separation tags for the hashed composer, mirroring the canonical
// encoding tags so a sequence of scalars never collides with a scalar of the
// concatenated bytes.
var (
	hashTagSequence = []byte{0x10}
	hashTagSet      = []byte{0x11}
	hashTagRecord   = []byte{0x12}
)

// hashedComposer folds everything into opaque 64-bit values.
type hashedComposer struct {
	h Hasher
}

func (c *hashedComposer) scalar(v any) fingerprint.Fingerprint {
	canon := fingerprint.Canonical(fingerprint.Scalar{Value: normalizeScalar(v)})
	return fingerprint.Hashed(c.h(canon))
}

func (c *hashedComposer) cycle(delta int) fingerprint.Fingerprint {
	return fingerprint.Hashed(c.h(fingerprint.Canonical(fingerprint.Cycle{Delta: delta})))
}

// mix folds a new element into a running value position-sensitively.
func (c *hashedComposer) mix(acc, elem uint64) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], acc)
	binary.BigEndian.PutUint64(buf[8:], elem)
	return c.h(buf[:])
}

func (c *hashedComposer) sequence(children []fingerprint.Fingerprint, ordered bool) fingerprint.Fingerprint {
	if ordered {
		acc := c.h(hashTagSequence)
		for _, child := range children {
			acc = c.mix(acc, child.Hash())
		}
		return fingerprint.Hashed(acc)
	}
	// Commutative fold: identical multisets match regardless of the order
	// the engine happened to enumerate them in.
	acc := c.h(hashTagSet)
	for _, child := range children {
		acc ^= child.Hash()
	}
	return fingerprint.Hashed(acc)
}

func (c *hashedComposer) record(pairs []pair, writeKeys bool) fingerprint.Fingerprint {
	acc := c.h(hashTagRecord)
	for _, p := range pairs {
		if writeKeys {
			acc = c.mix(acc, p.key.Hash())
		}
		acc = c.mix(acc, p.value.Hash())
	}
	return fingerprint.Hashed(acc)
}

func (c *hashedComposer) combine(a, b fingerprint.Fingerprint) fingerprint.Fingerprint {
	return fingerprint.Hashed(c.mix(a.Hash(), b.Hash()))
}

func (c *hashedComposer) keyLess(a, b fingerprint.Fingerprint) bool {
	return a.Hash() < b.Hash()
}
