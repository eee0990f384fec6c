package freeze

import (
	"math"
	"reflect"
	"sync"

	"github.com/jonwraymond/deepfreeze/fingerprint"
)

// NoCycle is the MinCycleRef value of a subtree containing no cycle
// back-reference. Aggregation takes the minimum, so "no cycle" is +infinity.
const NoCycle = math.MaxInt

// Result is one adapter's output: the fingerprint of the subtree, whether
// the subtree is provably immutable, and the shallowest ancestor depth any
// cycle inside the subtree refers back to (NoCycle when none).
type Result struct {
	Fingerprint fingerprint.Fingerprint
	Immutable   bool
	MinCycleRef int
}

// Adapter decomposes one value category into child fingerprints.
//
// Contract:
//   - Purity: adapters must not mutate the value. Read-only positional probes
//     of externally backed resources are permitted if position is restored.
//   - Recursion: adapters recurse through s.Freeze and the composition
//     helpers; they never walk values behind the engine's back, or cycle
//     detection and the recursion limit stop working.
type Adapter func(s *State, v reflect.Value, depth, index int) (Result, error)

type ifaceAdapter struct {
	iface   reflect.Type
	adapter Adapter
}

// Registry resolves a value's type to an Adapter. Resolution order: exact
// type match, then registered interfaces in registration order (the
// nearest-ancestor analogue), then the value's reflect.Kind, then a fallback
// that fails with ErrUnfreezable.
type Registry struct {
	exact    map[reflect.Type]Adapter
	ifaces   []ifaceAdapter
	kinds    map[reflect.Kind]Adapter
	fallback Adapter
}

// NewRegistry returns an empty registry whose only behavior is to fail with
// ErrUnfreezable. Most callers want DefaultRegistry or a Clone of it.
func NewRegistry() *Registry {
	return &Registry{
		exact:    make(map[reflect.Type]Adapter),
		kinds:    make(map[reflect.Kind]Adapter),
		fallback: unfreezableAdapter,
	}
}

// RegisterType installs an adapter for one exact reflect.Type.
func (r *Registry) RegisterType(t reflect.Type, a Adapter) {
	r.exact[t] = a
}

// RegisterInterface installs an adapter for every type implementing iface.
// Earlier registrations win when a type implements several.
func (r *Registry) RegisterInterface(iface reflect.Type, a Adapter) {
	r.ifaces = append(r.ifaces, ifaceAdapter{iface: iface, adapter: a})
}

// RegisterKind installs an adapter for one reflect.Kind.
func (r *Registry) RegisterKind(k reflect.Kind, a Adapter) {
	r.kinds[k] = a
}

// Clone returns an independent copy. Use it to extend the default registry
// without mutating shared state.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for t, a := range r.exact {
		c.exact[t] = a
	}
	c.ifaces = append([]ifaceAdapter(nil), r.ifaces...)
	for k, a := range r.kinds {
		c.kinds[k] = a
	}
	c.fallback = r.fallback
	return c
}

func (r *Registry) lookup(t reflect.Type) Adapter {
	if a, ok := r.exact[t]; ok {
		return a
	}
	for _, ia := range r.ifaces {
		if t.Implements(ia.iface) {
			return ia.adapter
		}
	}
	if a, ok := r.kinds[t.Kind()]; ok {
		return a
	}
	return r.fallback
}

var (
	sharedDefaultRegistry     *Registry
	sharedDefaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry with the built-in adapter set:
// every Go kind the engine understands, the hook interfaces (Freezable,
// Versioned, marshalers), and a small standard-library catalog. Built lazily:
// the adapter table references the engine, which resolves back through this
// registry. Callers must not mutate it; Clone first.
func DefaultRegistry() *Registry {
	sharedDefaultRegistryOnce.Do(func() {
		sharedDefaultRegistry = buildDefaultRegistry()
	})
	return sharedDefaultRegistry
}

func unfreezableAdapter(_ *State, v reflect.Value, _, _ int) (Result, error) {
	return Result{}, unfreezableError(v.Type())
}

func unfreezableError(t reflect.Type) error {
	return &typeError{sentinel: ErrUnfreezable, typ: t}
}

// typeError attaches the offending type to a sentinel.
type typeError struct {
	sentinel error
	typ      reflect.Type
}

func (e *typeError) Error() string {
	return e.sentinel.Error() + ": " + e.typ.String()
}

func (e *typeError) Unwrap() error { return e.sentinel }
