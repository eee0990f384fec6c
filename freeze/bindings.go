package freeze

import "reflect"

// Bindings is a named bag of variables: a config scope, a closure
// environment, an argument set. Its fingerprint covers the scope name and
// every variable the active policy does not exclude for that scope, in
// name-sorted order.
type Bindings struct {
	Scope string
	Vars  map[string]any
}

func bindingsAdapter(s *State, v reflect.Value, depth, index int) (Result, error) {
	if !v.CanInterface() {
		return kindDispatch(s, v, depth, index)
	}
	b := v.Interface().(Bindings)

	pol := s.cfg.Policy
	attrs := make([]Attr, 0, len(b.Vars))
	for name, val := range b.Vars {
		if pol != nil && pol.ExcludedBinding(b.Scope, name) {
			continue
		}
		attrs = append(attrs, Attr{Name: name, Value: reflect.ValueOf(val)})
	}
	state, err := s.FreezeAttrs(attrs, false, true, depth)
	if err != nil {
		return Result{}, err
	}
	return s.Combine(s.Scalar("bindings:"+b.Scope, true), state), nil
}
