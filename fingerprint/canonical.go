package fingerprint

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Canonical encoding tags. One tag byte per node or scalar shape, followed by
// uvarint-delimited contents. The encoding is injective over the documented
// scalar set: distinct trees encode to distinct byte strings.
const (
	tagNil      byte = 0x00
	tagFalse    byte = 0x01
	tagTrue     byte = 0x02
	tagInt      byte = 0x03
	tagUint     byte = 0x04
	tagFloat    byte = 0x05
	tagString   byte = 0x06
	tagBytes    byte = 0x07
	tagOpaque   byte = 0x08
	tagSequence byte = 0x10
	tagSet      byte = 0x11
	tagRecord   byte = 0x12
	tagCycle    byte = 0x13
)

// Canonical returns the canonical byte encoding of n. The encoding is stable
// across processes and platforms: it contains no pointers, no map iteration
// order, and no locale- or architecture-dependent formatting.
func Canonical(n Node) []byte {
	return n.appendCanonical(nil)
}

// Equal reports whether two nodes are structurally equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return string(Canonical(a)) == string(Canonical(b))
}

func (s Scalar) appendCanonical(dst []byte) []byte {
	switch v := s.Value.(type) {
	case nil:
		return append(dst, tagNil)
	case bool:
		if v {
			return append(dst, tagTrue)
		}
		return append(dst, tagFalse)
	case int64:
		dst = append(dst, tagInt)
		return binary.AppendVarint(dst, v)
	case uint64:
		dst = append(dst, tagUint)
		return binary.AppendUvarint(dst, v)
	case float64:
		dst = append(dst, tagFloat)
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(v))
	case string:
		dst = append(dst, tagString)
		dst = binary.AppendUvarint(dst, uint64(len(v)))
		return append(dst, v...)
	case []byte:
		dst = append(dst, tagBytes)
		dst = binary.AppendUvarint(dst, uint64(len(v)))
		return append(dst, v...)
	case Opaque:
		dst = append(dst, tagOpaque)
		dst = binary.AppendUvarint(dst, uint64(len(v)))
		return append(dst, v...)
	default:
		// Last resort for producers outside the documented scalar set.
		repr := fmt.Sprintf("%T=%v", v, v)
		dst = append(dst, tagOpaque)
		dst = binary.AppendUvarint(dst, uint64(len(repr)))
		return append(dst, repr...)
	}
}

func (s Sequence) appendCanonical(dst []byte) []byte {
	dst = append(dst, tagSequence)
	dst = binary.AppendUvarint(dst, uint64(len(s.Elems)))
	for _, e := range s.Elems {
		dst = e.appendCanonical(dst)
	}
	return dst
}

func (s Set) appendCanonical(dst []byte) []byte {
	dst = append(dst, tagSet)
	dst = binary.AppendUvarint(dst, uint64(len(s.elems)))
	for _, e := range s.elems {
		dst = e.appendCanonical(dst)
	}
	return dst
}

func (r Record) appendCanonical(dst []byte) []byte {
	dst = append(dst, tagRecord)
	dst = binary.AppendUvarint(dst, uint64(len(r.Pairs)))
	for _, p := range r.Pairs {
		dst = p.Key.appendCanonical(dst)
		dst = p.Value.appendCanonical(dst)
	}
	return dst
}

func (c Cycle) appendCanonical(dst []byte) []byte {
	dst = append(dst, tagCycle)
	return binary.AppendUvarint(dst, uint64(c.Delta))
}
