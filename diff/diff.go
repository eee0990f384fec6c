package diff

import (
	"iter"
	"strconv"

	"github.com/jonwraymond/deepfreeze/fingerprint"
)

// Iterate reports every divergence between two structural fingerprints as a
// lazy sequence of (location in a, location in b) pairs. The sequence is
// finite and may be ranged over any number of times. Both fingerprints must
// be structural; otherwise ErrHashedFingerprint is returned.
func Iterate(a, b fingerprint.Fingerprint) (iter.Seq2[Location, Location], error) {
	if !a.IsStructural() || !b.IsStructural() {
		return nil, ErrHashedFingerprint
	}
	return IterateNodes(a.Node(), b.Node()), nil
}

// IterateNodes is Iterate on bare node trees.
func IterateNodes(a, b fingerprint.Node) iter.Seq2[Location, Location] {
	return func(yield func(Location, Location) bool) {
		walk(rootLocation("a", a), rootLocation("b", b), yield)
	}
}

// walk compares the tails of la and lb and yields divergences. It returns
// false when the consumer stopped the iteration.
func walk(la, lb Location, yield func(Location, Location) bool) bool {
	a, b := la.Node(), lb.Node()

	if a.Kind() != b.Kind() {
		return yield(
			la.push(".kind()", fingerprint.Scalar{Value: a.Kind().String()}),
			lb.push(".kind()", fingerprint.Scalar{Value: b.Kind().String()}),
		)
	}

	switch an := a.(type) {
	case fingerprint.Record:
		return walkRecords(la, lb, an, b.(fingerprint.Record), yield)

	case fingerprint.Sequence:
		bn := b.(fingerprint.Sequence)
		if ra, ok := asKeyed(an.Elems); ok {
			if rb, ok := asKeyed(bn.Elems); ok {
				return walk(la.retail(ra), lb.retail(rb), yield)
			}
		}
		return walkOrdered(la, lb, an.Elems, bn.Elems, yield)

	case fingerprint.Set:
		bn := b.(fingerprint.Set)
		if ra, ok := asKeyed(an.Elems()); ok {
			if rb, ok := asKeyed(bn.Elems()); ok {
				return walk(la.retail(ra), lb.retail(rb), yield)
			}
		}
		return walkSets(la, lb, an, bn, yield)

	default:
		// Scalars and cycle markers: leaf comparison.
		if !fingerprint.Equal(a, b) {
			return yield(la, lb)
		}
		return true
	}
}

func walkRecords(la, lb Location, a, b fingerprint.Record, yield func(Location, Location) bool) bool {
	aKeys := fingerprint.NewSet(a.Keys())
	bKeys := fingerprint.NewSet(b.Keys())
	if !walk(la.push(".keys()", aKeys), lb.push(".keys()", bKeys), yield) {
		return false
	}
	for _, p := range a.Pairs {
		bv, ok := b.Get(p.Key)
		if !ok {
			continue // one-sided keys already reported via the key-sets
		}
		label := keyLabel(p.Key)
		if !walk(la.push(label, p.Value), lb.push(label, bv), yield) {
			return false
		}
	}
	return true
}

func walkOrdered(la, lb Location, a, b []fingerprint.Node, yield func(Location, Location) bool) bool {
	if len(a) != len(b) {
		ok := yield(
			la.push(".len()", fingerprint.Scalar{Value: int64(len(a))}),
			lb.push(".len()", fingerprint.Scalar{Value: int64(len(b))}),
		)
		if !ok {
			return false
		}
	}
	for i := 0; i < min(len(a), len(b)); i++ {
		label := "[" + strconv.Itoa(i) + "]"
		if !walk(la.push(label, a[i]), lb.push(label, b[i]), yield) {
			return false
		}
	}
	return true
}

func walkSets(la, lb Location, a, b fingerprint.Set, yield func(Location, Location) bool) bool {
	missing := fingerprint.Scalar{Value: "no such element"}
	for _, elem := range a.Elems() {
		if b.Contains(elem) {
			continue
		}
		if !yield(la.push(".has()", elem), lb.push(".has()", missing)) {
			return false
		}
	}
	for _, elem := range b.Elems() {
		if a.Contains(elem) {
			continue
		}
		if !yield(la.push(".has()", missing), lb.push(".has()", elem)) {
			return false
		}
	}
	return true
}

// asKeyed recognizes the shape an order-erased mapping freezes to: a
// non-empty composite whose every element is a 2-element sequence. Such a
// composite reads better keyed, so the walk rebuilds it as a Record. The
// reinterpretation applies only when both sides match the shape.
func asKeyed(elems []fingerprint.Node) (fingerprint.Record, bool) {
	if len(elems) == 0 {
		return fingerprint.Record{}, false
	}
	pairs := make([]fingerprint.Pair, len(elems))
	for i, e := range elems {
		seq, ok := e.(fingerprint.Sequence)
		if !ok || len(seq.Elems) != 2 {
			return fingerprint.Record{}, false
		}
		pairs[i] = fingerprint.Pair{Key: seq.Elems[0], Value: seq.Elems[1]}
	}
	return fingerprint.Record{Pairs: pairs}, true
}

func keyLabel(key fingerprint.Node) string {
	if s, ok := key.(fingerprint.Scalar); ok {
		if str, ok := s.Value.(string); ok {
			return "[" + strconv.Quote(str) + "]"
		}
	}
	return "[" + key.String() + "]"
}
