package fingerprint

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Sentinel errors for the wire codec.
var (
	// ErrMalformedEncoding is returned when decoded bytes do not describe a
	// well-formed node tree.
	ErrMalformedEncoding = errors.New("fingerprint: malformed encoding")
)

// Scalar shape codes on the wire.
const (
	wireNil = iota
	wireBool
	wireInt
	wireUint
	wireFloat
	wireString
	wireBytes
	wireOpaque
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal serializes a structural node tree with deterministic CBOR, so a
// fingerprint produced in one process can be diffed in another.
func Marshal(n Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrMalformedEncoding)
	}
	return encMode.Marshal(toWire(n))
}

// Unmarshal reverses Marshal.
func Unmarshal(data []byte) (Node, error) {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return fromWire(raw)
}

func toWire(n Node) []any {
	switch v := n.(type) {
	case Scalar:
		switch sv := v.Value.(type) {
		case nil:
			return []any{uint8(KindScalar), wireNil}
		case bool:
			return []any{uint8(KindScalar), wireBool, sv}
		case int64:
			return []any{uint8(KindScalar), wireInt, sv}
		case uint64:
			return []any{uint8(KindScalar), wireUint, sv}
		case float64:
			return []any{uint8(KindScalar), wireFloat, sv}
		case string:
			return []any{uint8(KindScalar), wireString, sv}
		case []byte:
			return []any{uint8(KindScalar), wireBytes, sv}
		case Opaque:
			return []any{uint8(KindScalar), wireOpaque, string(sv)}
		default:
			return []any{uint8(KindScalar), wireOpaque, fmt.Sprintf("%T=%v", sv, sv)}
		}
	case Sequence:
		return []any{uint8(KindSequence), wireElems(v.Elems)}
	case Set:
		return []any{uint8(KindSet), wireElems(v.elems)}
	case Record:
		pairs := make([]any, len(v.Pairs))
		for i, p := range v.Pairs {
			pairs[i] = []any{toWire(p.Key), toWire(p.Value)}
		}
		return []any{uint8(KindRecord), pairs}
	case Cycle:
		return []any{uint8(KindCycle), v.Delta}
	default:
		return []any{uint8(KindScalar), wireOpaque, fmt.Sprintf("%T", n)}
	}
}

func wireElems(elems []Node) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = toWire(e)
	}
	return out
}

func fromWire(raw any) (Node, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) < 2 {
		return nil, fmt.Errorf("%w: node is not a tagged array", ErrMalformedEncoding)
	}
	kind, err := wireUintOf(arr[0])
	if err != nil {
		return nil, err
	}
	switch Kind(kind) {
	case KindScalar:
		return scalarFromWire(arr)
	case KindSequence:
		elems, err := elemsFromWire(arr[1])
		if err != nil {
			return nil, err
		}
		return Sequence{Elems: elems}, nil
	case KindSet:
		elems, err := elemsFromWire(arr[1])
		if err != nil {
			return nil, err
		}
		return NewSet(elems), nil
	case KindRecord:
		rawPairs, ok := arr[1].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: record pairs are not an array", ErrMalformedEncoding)
		}
		pairs := make([]Pair, len(rawPairs))
		for i, rp := range rawPairs {
			kv, ok := rp.([]any)
			if !ok || len(kv) != 2 {
				return nil, fmt.Errorf("%w: record pair is not a 2-array", ErrMalformedEncoding)
			}
			key, err := fromWire(kv[0])
			if err != nil {
				return nil, err
			}
			val, err := fromWire(kv[1])
			if err != nil {
				return nil, err
			}
			pairs[i] = Pair{Key: key, Value: val}
		}
		return Record{Pairs: pairs}, nil
	case KindCycle:
		delta, err := wireUintOf(arr[1])
		if err != nil {
			return nil, err
		}
		return Cycle{Delta: int(delta)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown node kind %d", ErrMalformedEncoding, kind)
	}
}

func scalarFromWire(arr []any) (Node, error) {
	code, err := wireUintOf(arr[1])
	if err != nil {
		return nil, err
	}
	if code == wireNil {
		return Scalar{Value: nil}, nil
	}
	if len(arr) < 3 {
		return nil, fmt.Errorf("%w: scalar missing value", ErrMalformedEncoding)
	}
	v := arr[2]
	switch code {
	case wireBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: scalar bool", ErrMalformedEncoding)
		}
		return Scalar{Value: b}, nil
	case wireInt:
		switch n := v.(type) {
		case int64:
			return Scalar{Value: n}, nil
		case uint64:
			return Scalar{Value: int64(n)}, nil
		}
		return nil, fmt.Errorf("%w: scalar int", ErrMalformedEncoding)
	case wireUint:
		switch n := v.(type) {
		case uint64:
			return Scalar{Value: n}, nil
		case int64:
			return Scalar{Value: uint64(n)}, nil
		}
		return nil, fmt.Errorf("%w: scalar uint", ErrMalformedEncoding)
	case wireFloat:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: scalar float", ErrMalformedEncoding)
		}
		return Scalar{Value: f}, nil
	case wireString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: scalar string", ErrMalformedEncoding)
		}
		return Scalar{Value: s}, nil
	case wireOpaque:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: scalar opaque", ErrMalformedEncoding)
		}
		return Scalar{Value: Opaque(s)}, nil
	case wireBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: scalar bytes", ErrMalformedEncoding)
		}
		return Scalar{Value: b}, nil
	default:
		return nil, fmt.Errorf("%w: unknown scalar code %d", ErrMalformedEncoding, code)
	}
}

func elemsFromWire(raw any) ([]Node, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: composite elements are not an array", ErrMalformedEncoding)
	}
	elems := make([]Node, len(arr))
	for i, e := range arr {
		n, err := fromWire(e)
		if err != nil {
			return nil, err
		}
		elems[i] = n
	}
	return elems, nil
}

func wireUintOf(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("%w: negative tag", ErrMalformedEncoding)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("%w: tag is not an integer", ErrMalformedEncoding)
	}
}
