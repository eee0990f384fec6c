package freeze

import (
	"encoding"
	"fmt"
	"reflect"
)

// Freezable lets a type replace reflection-based decomposition with an
// explicit snapshot of its own state. FrozenState must return a value that
// fully determines the receiver's observable behavior; the returned value is
// frozen recursively one level deeper, prefixed with the receiver's type name.
//
// Contract:
//   - Concurrency: FrozenState must be safe to call whenever the value is
//     handed to Freeze; the engine itself adds no synchronization.
//   - Errors: a FrozenState result that cannot itself be frozen surfaces as
//     the inner error, not ErrBadFrozenState.
type Freezable interface {
	FrozenState() any
}

// Versioned lets a type stand in for its contents with a version token.
// When the active policy trusts versions and the type is not listed as an
// exception, the fingerprint covers only the type name and the token.
//
// Contract:
//   - FrozenVersion must change whenever the observable state changes;
//     that is the trust the policy extends.
//   - With TrustVersions off (or an exception in force) the value is frozen
//     by ordinary decomposition instead.
type Versioned interface {
	FrozenVersion() string
}

var (
	freezableIface       = reflect.TypeOf((*Freezable)(nil)).Elem()
	versionedIface       = reflect.TypeOf((*Versioned)(nil)).Elem()
	reflectTypeIface     = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	binaryMarshalerIface = reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem()
	textMarshalerIface   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func freezableAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return s.Scalar(nil, true), nil
	}
	state := v.Interface().(Freezable).FrozenState()
	child, err := s.Freeze(reflect.ValueOf(state), depth+1, 0)
	if err != nil {
		return Result{}, err
	}
	return s.Combine(s.Scalar(v.Type().String(), true), child), nil
}

func versionedAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	pol := s.cfg.Policy
	name := v.Type().String()
	if pol == nil || !pol.TrustVersions || pol.IsVersionException(name) || !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return s.Scalar(nil, true), nil
	}
	ver := v.Interface().(Versioned).FrozenVersion()
	return s.Combine(s.Scalar(name, true), s.Scalar(ver, true)), nil
}

func typeValueAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	t := v.Interface().(reflect.Type)
	if t == nil {
		return s.Scalar(nil, true), nil
	}
	return s.Scalar("type:"+t.String(), true), nil
}

func binaryMarshalerAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return s.Scalar(nil, true), nil
	}
	data, err := v.Interface().(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s.MarshalBinary: %v", ErrBadFrozenState, v.Type(), err)
	}
	return s.Combine(s.Scalar(v.Type().String(), true), s.Scalar(data, false)), nil
}

func textMarshalerAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return s.Scalar(nil, true), nil
	}
	data, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s.MarshalText: %v", ErrBadFrozenState, v.Type(), err)
	}
	return s.Combine(s.Scalar(v.Type().String(), true), s.Scalar(string(data), false)), nil
}
