package freeze

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"
	"time"
)

func TestRegexp_PatternIdentity(t *testing.T) {
	cfg := New()

	a := mustFreeze(t, regexp.MustCompile(`^a+$`), cfg)
	b := mustFreeze(t, regexp.MustCompile(`^a+$`), cfg)
	if !a.Equal(b) {
		t.Error("separately compiled regexps with one pattern should fingerprint equal")
	}

	c := mustFreeze(t, regexp.MustCompile(`^b+$`), cfg)
	if a.Equal(c) {
		t.Error("different patterns should fingerprint differently")
	}
}

func TestRegexp_Immutable(t *testing.T) {
	s := newTestState(New())
	res, err := s.Freeze(reflect.ValueOf(regexp.MustCompile(`x`)), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Immutable {
		t.Error("compiled regexps never change and should report immutable")
	}
}

func TestBuffer_ContentSensitive(t *testing.T) {
	cfg := New()

	a := mustFreeze(t, bytes.NewBufferString("hello"), cfg)
	b := mustFreeze(t, bytes.NewBufferString("hello"), cfg)
	if !a.Equal(b) {
		t.Error("buffers holding the same bytes should fingerprint equal")
	}

	c := mustFreeze(t, bytes.NewBufferString("world"), cfg)
	if a.Equal(c) {
		t.Error("buffer contents should distinguish fingerprints")
	}

	s := newTestState(New())
	res, err := s.Freeze(reflect.ValueOf(bytes.NewBufferString("x")), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Immutable {
		t.Error("buffers are writable and must report mutable")
	}
}

func TestBuffer_DistinctFromRawBytes(t *testing.T) {
	cfg := NewStructural()
	buf := mustFreeze(t, bytes.NewBufferString("abc"), cfg)
	raw := mustFreeze(t, []byte("abc"), cfg)
	if buf.Equal(raw) {
		t.Error("a buffer should carry its type leaf, not collapse onto its bytes")
	}
}

func TestTimePointer_MatchesValue(t *testing.T) {
	// *time.Time must reach the time.Time adapter through the pointer deref,
	// not the encoding.BinaryMarshaler hook.
	cfg := New()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	shifted := at.In(time.FixedZone("X", 3600))

	a := mustFreeze(t, &at, cfg)
	b := mustFreeze(t, &shifted, cfg)
	if !a.Equal(b) {
		t.Error("*time.Time should normalize zones like time.Time does")
	}
}

func TestFile_PositionAndName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	open := func() *os.File {
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { f.Close() })
		return f
	}

	cfg := New()
	f1, f2 := open(), open()
	a := mustFreeze(t, f1, cfg)
	b := mustFreeze(t, f2, cfg)
	if !a.Equal(b) {
		t.Error("two handles on one file at position 0 should fingerprint equal")
	}

	if _, err := f2.Seek(4, 0); err != nil {
		t.Fatal(err)
	}
	c := mustFreeze(t, f2, cfg)
	if a.Equal(c) {
		t.Error("the read position is part of the handle's state")
	}
}

func TestFile_NotSeekable(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if _, err := Freeze(r, New()); !errors.Is(err, ErrUnfreezable) {
		t.Errorf("freezing a pipe should fail with ErrUnfreezable, got %v", err)
	}
}

func TestBindings_ScopeDistinguishes(t *testing.T) {
	cfg := New()
	vars := map[string]any{"PATH": "/bin"}

	a := mustFreeze(t, Bindings{Scope: "env", Vars: vars}, cfg)
	b := mustFreeze(t, Bindings{Scope: "flags", Vars: vars}, cfg)
	if a.Equal(b) {
		t.Error("the scope name should be part of the fingerprint")
	}

	c := mustFreeze(t, Bindings{Scope: "env", Vars: map[string]any{"PATH": "/bin"}}, cfg)
	if !a.Equal(c) {
		t.Error("equal scope and vars should fingerprint equal")
	}
}
