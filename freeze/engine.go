package freeze

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/jonwraymond/deepfreeze/fingerprint"
	"github.com/jonwraymond/deepfreeze/observe"
)

// identity names a pointer-shaped value for the tabu map and the memo cache.
// Slice identities include the length so two slices sharing a backing array
// but covering different windows stay distinct.
type identity struct {
	ptr uintptr
	typ reflect.Type
	len int
}

func identityOf(v reflect.Value) (identity, bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return identity{}, false
		}
		return identity{ptr: v.Pointer(), typ: v.Type()}, true
	case reflect.Slice:
		if v.IsNil() {
			return identity{}, false
		}
		return identity{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}, true
	default:
		return identity{}, false
	}
}

// cycleCapable reports whether a value of this kind can be its own ancestor.
// Anything else skips the tabu map, a cheap win on scalar-heavy graphs.
func cycleCapable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

type tabuEntry struct {
	depth int
	index int
}

// Stats reports work done by one Freeze call.
type Stats struct {
	// NodesVisited counts values the engine stepped into, cache hits and
	// cycle markers included.
	NodesVisited int

	// MemoHits counts values served from the cross-call memo cache.
	MemoHits int
}

// State is the traversal state of one Freeze invocation: the tabu map of
// identities currently being expanded on the recursion path, plus the
// selected composition mode. It is created and destroyed inside one call and
// never shared.
type State struct {
	cfg   *Config
	comp  composer
	tabu  map[identity]tabuEntry
	stats Stats
}

// Config returns the Config this call runs under.
func (s *State) Config() *Config { return s.cfg }

// Freeze fingerprints a value graph. A nil cfg uses the shared package
// default. Structurally equal values yield equal fingerprints; see the
// package documentation for the determinism and concurrency contract.
func Freeze(v any, cfg *Config) (fingerprint.Fingerprint, error) {
	fp, _, err := FreezeWithStats(v, cfg)
	return fp, err
}

// FreezeWithStats is Freeze plus traversal statistics, for callers feeding
// metrics.
func FreezeWithStats(v any, cfg *Config) (fingerprint.Fingerprint, Stats, error) {
	if cfg == nil {
		cfg = defaultConfig()
	}
	s := &State{
		cfg:  cfg,
		comp: newComposer(cfg),
		tabu: make(map[identity]tabuEntry),
	}
	res, err := s.Freeze(reflect.ValueOf(v), 0, 0)
	if err != nil {
		return fingerprint.Fingerprint{}, s.stats, err
	}
	return res.Fingerprint, s.stats, nil
}

// Freeze is the recursive step. Adapters re-enter the engine through it with
// depth+1 and the child's ordinal index.
func (s *State) Freeze(v reflect.Value, depth, index int) (Result, error) {
	if limit := s.cfg.RecursionLimit; limit > 0 && depth > limit {
		return Result{}, fmt.Errorf("%w: depth %d", ErrRecursionLimit, depth)
	}
	s.stats.NodesVisited++

	if !v.IsValid() {
		return s.Scalar(nil, true), nil
	}
	s.logVisit(v, depth)

	id, hasID := identityOf(v)

	// Exclusions short-circuit before any recursion: identity rules first,
	// then type rules.
	if pol := s.cfg.Policy; pol != nil {
		if hasID && pol.excludedIdentity(id) {
			return s.Scalar("excluded", true), nil
		}
		if pol.ExcludedType(v.Type().String()) {
			return s.Scalar("excluded:"+v.Type().String(), true), nil
		}
	}

	if hasID {
		if fp, ok := s.cfg.memoLoad(id); ok {
			s.stats.MemoHits++
			return Result{Fingerprint: fp, Immutable: true, MinCycleRef: NoCycle}, nil
		}
		if ent, ok := s.tabu[id]; ok {
			// The value is an ancestor of itself on the active path. The
			// marker records the relative distance, so isomorphic cyclic
			// shapes fingerprint identically at any absolute depth.
			return Result{
				Fingerprint: s.comp.cycle(depth - ent.depth),
				Immutable:   true,
				MinCycleRef: ent.depth,
			}, nil
		}
		if cycleCapable(v.Kind()) {
			s.tabu[id] = tabuEntry{depth: depth, index: index}
			defer delete(s.tabu, id)
		}
	}

	res, err := s.cfg.registry().lookup(v.Type())(s, v, depth, index)
	if err != nil {
		return Result{}, err
	}

	// Permanent values that proved immutable and contain no cycle escaping
	// this subtree are cached across calls, keyed by identity.
	if hasID && res.Immutable && res.MinCycleRef >= depth && isPermanent(v) {
		s.cfg.memoStore(id, res.Fingerprint)
	}
	return res, nil
}

// Scalar builds a leaf Result in the current composition mode.
func (s *State) Scalar(v any, immutable bool) Result {
	return Result{
		Fingerprint: s.comp.scalar(v),
		Immutable:   immutable,
		MinCycleRef: NoCycle,
	}
}

// Combine merges two sibling parts of one adapter's output: fingerprints are
// combined left-associatively, immutability is ANDed, cycle references take
// the minimum.
func (s *State) Combine(a, b Result) Result {
	return Result{
		Fingerprint: s.comp.combine(a.Fingerprint, b.Fingerprint),
		Immutable:   a.Immutable && b.Immutable,
		MinCycleRef: min(a.MinCycleRef, b.MinCycleRef),
	}
}

// FreezeSequence recurses into items in the given order and merges them
// order-preserving (ordered=true) or order-erasing (ordered=false).
// seedImmutable is the container's own contribution to the immutability AND.
func (s *State) FreezeSequence(items []reflect.Value, seedImmutable, ordered bool, depth int) (Result, error) {
	children := make([]fingerprint.Fingerprint, len(items))
	agg := Result{Immutable: seedImmutable, MinCycleRef: NoCycle}
	for i, item := range items {
		r, err := s.Freeze(item, depth+1, i)
		if err != nil {
			return Result{}, err
		}
		children[i] = r.Fingerprint
		agg.Immutable = agg.Immutable && r.Immutable
		agg.MinCycleRef = min(agg.MinCycleRef, r.MinCycleRef)
	}
	agg.Fingerprint = s.comp.sequence(children, ordered)
	return agg, nil
}

// Attr is one named child of a keyed composite.
type Attr struct {
	Name  string
	Value reflect.Value
}

// FreezeAttrs recurses into named children in canonical (name-sorted) order.
// With writeKeys=false the names are omitted from the output; the adapter
// then guarantees a fixed schema so values alone stay distinguishing.
func (s *State) FreezeAttrs(attrs []Attr, seedImmutable, writeKeys bool, depth int) (Result, error) {
	sorted := make([]Attr, len(attrs))
	copy(sorted, attrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	pairs := make([]pair, len(sorted))
	agg := Result{Immutable: seedImmutable, MinCycleRef: NoCycle}
	for i, attr := range sorted {
		r, err := s.Freeze(attr.Value, depth+1, i)
		if err != nil {
			return Result{}, err
		}
		pairs[i] = pair{key: s.comp.scalar(attr.Name), value: r.Fingerprint}
		agg.Immutable = agg.Immutable && r.Immutable
		agg.MinCycleRef = min(agg.MinCycleRef, r.MinCycleRef)
	}
	agg.Fingerprint = s.comp.record(pairs, writeKeys)
	return agg, nil
}

func (s *State) logVisit(v reflect.Value, depth int) {
	lg := s.cfg.Logger
	if lg == nil {
		return
	}
	lg.Debug(context.Background(), "freeze visit",
		observe.Field{Key: "type", Value: v.Type().String()},
		observe.Field{Key: "depth", Value: depth},
		observe.Field{Key: "value", Value: preview(v, s.cfg.logWidth())},
	)
}

// preview renders a short textual preview of a value without following
// pointers, so cyclic graphs cannot trap the logger.
func preview(v reflect.Value, width int) string {
	var out string
	switch v.Kind() {
	case reflect.String:
		out = strconv.Quote(v.String())
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		out = fmt.Sprintf("%v", v)
	case reflect.Slice, reflect.Array, reflect.Map:
		out = v.Type().String() + " len=" + strconv.Itoa(v.Len())
	default:
		out = v.Type().String()
	}
	if len(out) > width {
		// Back off to a rune boundary so the trim never splits UTF-8.
		cut := width
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut] + "..."
	}
	return out
}

func isPermanent(v reflect.Value) bool {
	if v.Kind() == reflect.Func {
		return true
	}
	t := v.Type()
	return t.Implements(reflectTypeIface) || t.Implements(versionedIface)
}
