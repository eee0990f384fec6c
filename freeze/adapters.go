package freeze

import (
	"bytes"
	"os"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"time"

	"github.com/jonwraymond/deepfreeze/fingerprint"
)

func buildDefaultRegistry() *Registry {
	r := NewRegistry()

	// Exact standard-library types. Exact matches win over interfaces, so
	// time.Time lands here rather than on its BinaryMarshaler.
	r.RegisterType(reflect.TypeOf(time.Time{}), timeAdapter)
	// *time.Time would otherwise match the BinaryMarshaler hook; route it
	// through the ordinary pointer deref so both spellings freeze alike.
	r.RegisterType(reflect.TypeOf((*time.Time)(nil)), pointerAdapter)
	r.RegisterType(reflect.TypeOf((*regexp.Regexp)(nil)), regexpAdapter)
	r.RegisterType(reflect.TypeOf((*bytes.Buffer)(nil)), bufferAdapter)
	r.RegisterType(reflect.TypeOf((*os.File)(nil)), fileAdapter)
	r.RegisterType(reflect.TypeOf(Bindings{}), bindingsAdapter)

	// Hook interfaces, most specific intent first: the caller-defined
	// override, then version trust, then type values, then the standard
	// serialization protocols.
	r.RegisterInterface(freezableIface, freezableAdapter)
	r.RegisterInterface(versionedIface, versionedAdapter)
	r.RegisterInterface(reflectTypeIface, typeValueAdapter)
	r.RegisterInterface(binaryMarshalerIface, binaryMarshalerAdapter)
	r.RegisterInterface(textMarshalerIface, textMarshalerAdapter)

	// Generic decomposition by kind.
	for _, k := range []reflect.Kind{
		reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.String,
	} {
		r.RegisterKind(k, scalarKindAdapter)
	}
	r.RegisterKind(reflect.Complex64, complexAdapter)
	r.RegisterKind(reflect.Complex128, complexAdapter)
	r.RegisterKind(reflect.Array, arrayAdapter)
	r.RegisterKind(reflect.Slice, sliceAdapter)
	r.RegisterKind(reflect.Map, mapAdapter)
	r.RegisterKind(reflect.Struct, structAdapter)
	r.RegisterKind(reflect.Pointer, pointerAdapter)
	r.RegisterKind(reflect.Interface, interfaceAdapter)
	r.RegisterKind(reflect.Func, funcAdapter)
	r.RegisterKind(reflect.Chan, unfreezableAdapter)
	r.RegisterKind(reflect.UnsafePointer, unfreezableAdapter)

	return r
}

// kindDispatch routes a value to its kind adapter, bypassing exact and
// interface matches. Hook adapters fall back here when a value cannot be
// surfaced through Interface (unexported fields).
func kindDispatch(s *State, v reflect.Value, depth, index int) (Result, error) {
	r := s.cfg.registry()
	if a, ok := r.kinds[v.Kind()]; ok {
		return a(s, v, depth, index)
	}
	return r.fallback(s, v, depth, index)
}

func scalarKindAdapter(s *State, v reflect.Value, _, _ int) (Result, error) {
	switch v.Kind() {
	case reflect.Bool:
		return s.Scalar(v.Bool(), true), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return s.Scalar(v.Int(), true), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return s.Scalar(v.Uint(), true), nil
	case reflect.Float32, reflect.Float64:
		return s.Scalar(v.Float(), true), nil
	case reflect.String:
		return s.Scalar(v.String(), true), nil
	default:
		return Result{}, unfreezableError(v.Type())
	}
}

func complexAdapter(s *State, v reflect.Value, _, _ int) (Result, error) {
	c := v.Complex()
	return s.Combine(s.Scalar(real(c), true), s.Scalar(imag(c), true)), nil
}

func arrayAdapter(s *State, v reflect.Value, depth, _ int) (Result, error) {
	if v.Type().Elem().Kind() == reflect.Uint8 {
		data := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(data), v)
		return s.Scalar(data, true), nil
	}
	items := indexed(v)
	return s.FreezeSequence(items, true, true, depth)
}

func sliceAdapter(s *State, v reflect.Value, depth, _ int) (Result, error) {
	if v.Type().Elem().Kind() == reflect.Uint8 {
		data := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(data), v)
		return s.Scalar(data, false), nil
	}
	items := indexed(v)
	return s.FreezeSequence(items, false, true, depth)
}

func indexed(v reflect.Value) []reflect.Value {
	items := make([]reflect.Value, v.Len())
	for i := range items {
		items[i] = v.Index(i)
	}
	return items
}

var emptyStructType = reflect.TypeOf(struct{}{})

func mapAdapter(s *State, v reflect.Value, depth, _ int) (Result, error) {
	// map[K]struct{} is the conventional set: freeze the keys alone,
	// order-erased.
	if v.Type().Elem() == emptyStructType {
		return s.FreezeSequence(v.MapKeys(), false, false, depth)
	}

	pairs := make([]pair, 0, v.Len())
	agg := Result{Immutable: false, MinCycleRef: NoCycle}
	i := 0
	for iter := v.MapRange(); iter.Next(); i++ {
		kr, err := s.Freeze(iter.Key(), depth+1, i)
		if err != nil {
			return Result{}, err
		}
		vr, err := s.Freeze(iter.Value(), depth+1, i)
		if err != nil {
			return Result{}, err
		}
		pairs = append(pairs, pair{key: kr.Fingerprint, value: vr.Fingerprint})
		agg.MinCycleRef = min(agg.MinCycleRef, kr.MinCycleRef, vr.MinCycleRef)
	}

	if s.cfg.IgnoreMapOrder {
		// Order-erased: each entry becomes an anonymous 2-element pair
		// inside a set. Map iteration order cancels out in the fold.
		children := make([]fingerprint.Fingerprint, len(pairs))
		for i, p := range pairs {
			children[i] = s.comp.combine(p.key, p.value)
		}
		agg.Fingerprint = s.comp.sequence(children, false)
		return agg, nil
	}

	sort.Slice(pairs, func(i, j int) bool { return s.comp.keyLess(pairs[i].key, pairs[j].key) })
	agg.Fingerprint = s.comp.record(pairs, true)
	return agg, nil
}

func structAdapter(s *State, v reflect.Value, depth, _ int) (Result, error) {
	t := v.Type()
	typeLeaf := s.Scalar(t.String(), true)

	pol := s.cfg.Policy
	attrs := make([]Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		if pol != nil && pol.ExcludedField(t.String(), f.Name) {
			continue
		}
		attrs = append(attrs, Attr{Name: f.Name, Value: v.Field(i)})
	}
	if len(attrs) == 0 {
		return typeLeaf, nil
	}
	state, err := s.FreezeAttrs(attrs, true, true, depth)
	if err != nil {
		return Result{}, err
	}
	return s.Combine(typeLeaf, state), nil
}

func pointerAdapter(s *State, v reflect.Value, depth, _ int) (Result, error) {
	if v.IsNil() {
		return s.Scalar(nil, true), nil
	}
	child, err := s.Freeze(v.Elem(), depth+1, 0)
	if err != nil {
		return Result{}, err
	}
	// The pointee is reachable and writable through the pointer, so the
	// subtree is never provably immutable.
	child.Immutable = false
	return child, nil
}

func interfaceAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	elem := v.Elem()
	if !elem.IsValid() {
		return s.Scalar(nil, true), nil
	}
	// Transparent wrapper: same depth, same index.
	return s.Freeze(elem, depth, index)
}

func funcAdapter(s *State, v reflect.Value, _, _ int) (Result, error) {
	if v.IsNil() {
		return s.Scalar(nil, true), nil
	}
	name := "unknown"
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		name = fn.Name()
	}
	return s.Scalar("func:"+name, true), nil
}
