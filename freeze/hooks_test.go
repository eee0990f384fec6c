package freeze

import (
	"errors"
	"testing"
)

// doc trusts its version token to stand in for its contents.
type doc struct {
	Body    string
	Version string
}

func (d doc) FrozenVersion() string { return d.Version }

// opaque hides its state in unexported fields and exposes it through
// FrozenState.
type opaque struct {
	a, b int
}

func (o opaque) FrozenState() any { return [2]int{o.a, o.b} }

// hidden has the same unexported layout but no hook, so reflection sees
// nothing distinguishing.
type hidden struct {
	a, b int
}

type textID struct {
	id string
}

func (t textID) MarshalText() ([]byte, error) { return []byte(t.id), nil }

type brokenMarshaler struct {
	Name string
}

func (brokenMarshaler) MarshalBinary() ([]byte, error) {
	return nil, errors.New("not today")
}

func TestVersioned_TrustedVersion(t *testing.T) {
	a := mustFreeze(t, doc{Body: "one", Version: "v1"}, New())
	b := mustFreeze(t, doc{Body: "two", Version: "v1"}, New())
	if !a.Equal(b) {
		t.Error("same version should fingerprint equal when versions are trusted")
	}

	c := mustFreeze(t, doc{Body: "one", Version: "v2"}, New())
	if a.Equal(c) {
		t.Error("different versions should fingerprint differently")
	}
}

func TestVersioned_TrustDisabled(t *testing.T) {
	cfg := New()
	cfg.Policy = NewPolicy()
	cfg.Policy.TrustVersions = false

	a := mustFreeze(t, doc{Body: "one", Version: "v1"}, cfg)
	b := mustFreeze(t, doc{Body: "two", Version: "v1"}, cfg)
	if a.Equal(b) {
		t.Error("with trust disabled, contents must be decomposed")
	}
}

func TestVersioned_Exception(t *testing.T) {
	cfg := New()
	cfg.Policy = NewPolicy().VersionException("freeze.doc")

	a := mustFreeze(t, doc{Body: "one", Version: "v1"}, cfg)
	b := mustFreeze(t, doc{Body: "two", Version: "v1"}, cfg)
	if a.Equal(b) {
		t.Error("an excepted type must be decomposed despite its version")
	}
}

func TestFreezable_OverridesDecomposition(t *testing.T) {
	// Without the hook the unexported fields are invisible.
	a := mustFreeze(t, hidden{a: 1, b: 2}, New())
	b := mustFreeze(t, hidden{a: 9, b: 9}, New())
	if !a.Equal(b) {
		t.Fatal("baseline: unexported-only structs collide without a hook")
	}

	// With the hook the snapshot distinguishes them.
	c := mustFreeze(t, opaque{a: 1, b: 2}, New())
	d := mustFreeze(t, opaque{a: 9, b: 9}, New())
	if c.Equal(d) {
		t.Error("FrozenState should expose the hidden state")
	}

	e := mustFreeze(t, opaque{a: 1, b: 2}, New())
	if !c.Equal(e) {
		t.Error("FrozenState fingerprints should be deterministic")
	}
}

// ledger and snapshot implement the hooks on pointer receivers, so a typed
// nil pointer still dispatches to the hook adapter.
type ledger struct {
	entries []string
}

func (l *ledger) FrozenState() any { return l.entries }

type snapshot struct {
	Body    string
	Version string
}

func (s *snapshot) FrozenVersion() string { return s.Version }

func TestFreezable_NilPointer(t *testing.T) {
	var l *ledger
	fp := mustFreeze(t, l, NewStructural())
	if got := fp.Node().String(); got != "nil" {
		t.Errorf("nil hook pointer froze to %q, want nil scalar", got)
	}
	if !fp.Equal(mustFreeze(t, (*int)(nil), NewStructural())) {
		t.Error("nil hook pointer should fingerprint like any nil pointer")
	}
}

func TestVersioned_NilPointer(t *testing.T) {
	var s *snapshot
	fp := mustFreeze(t, s, NewStructural())
	if got := fp.Node().String(); got != "nil" {
		t.Errorf("nil versioned pointer froze to %q, want nil scalar", got)
	}

	// Non-nil pointers keep the version shortcut.
	a := mustFreeze(t, &snapshot{Body: "one", Version: "v1"}, New())
	b := mustFreeze(t, &snapshot{Body: "two", Version: "v1"}, New())
	if !a.Equal(b) {
		t.Error("same version should fingerprint equal through a pointer")
	}
}

func TestTextMarshaler_Hook(t *testing.T) {
	a := mustFreeze(t, textID{id: "alpha"}, New())
	b := mustFreeze(t, textID{id: "beta"}, New())
	if a.Equal(b) {
		t.Error("marshal output should distinguish values")
	}
	if !a.Equal(mustFreeze(t, textID{id: "alpha"}, New())) {
		t.Error("marshal-based fingerprints should be deterministic")
	}
}

func TestBinaryMarshaler_Error(t *testing.T) {
	if _, err := Freeze(brokenMarshaler{Name: "x"}, New()); !errors.Is(err, ErrBadFrozenState) {
		t.Errorf("error = %v, want ErrBadFrozenState", err)
	}
}
