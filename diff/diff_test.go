package diff

import (
	"errors"
	"testing"

	"github.com/jonwraymond/deepfreeze/fingerprint"
	"github.com/jonwraymond/deepfreeze/freeze"
)

func structuralCfg() *freeze.Config {
	cfg := freeze.NewStructural()
	cfg.IgnoreMapOrder = true
	return cfg
}

func mustFreeze(t *testing.T, v any, cfg *freeze.Config) fingerprint.Fingerprint {
	t.Helper()
	fp, err := freeze.Freeze(v, cfg)
	if err != nil {
		t.Fatalf("Freeze(%v) error = %v", v, err)
	}
	return fp
}

func collect(t *testing.T, a, b fingerprint.Fingerprint) []roundTrip {
	t.Helper()
	seq, err := Iterate(a, b)
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	var out []roundTrip
	for la, lb := range seq {
		out = append(out, roundTrip{a: la, b: lb})
	}
	return out
}

type roundTrip struct {
	a, b Location
}

func TestIterate_NoDifferences(t *testing.T) {
	cfg := structuralCfg()
	v := map[string]any{"x": []int{1, 2}, "y": "z"}
	a := mustFreeze(t, v, cfg)
	b := mustFreeze(t, map[string]any{"x": []int{1, 2}, "y": "z"}, cfg)

	if diffs := collect(t, a, b); len(diffs) != 0 {
		t.Errorf("equal values should yield no divergences, got %d", len(diffs))
	}
	if diffs := collect(t, a, a); len(diffs) != 0 {
		t.Errorf("a value diffed against itself should yield nothing, got %d", len(diffs))
	}
}

func TestIterate_RejectsHashed(t *testing.T) {
	hashed := mustFreeze(t, 1, freeze.New())
	structural := mustFreeze(t, 1, freeze.NewStructural())

	if _, err := Iterate(hashed, structural); !errors.Is(err, ErrHashedFingerprint) {
		t.Errorf("hashed left side: err = %v, want ErrHashedFingerprint", err)
	}
	if _, err := Iterate(structural, hashed); !errors.Is(err, ErrHashedFingerprint) {
		t.Errorf("hashed right side: err = %v, want ErrHashedFingerprint", err)
	}
}

func TestIterate_KindMismatch(t *testing.T) {
	cfg := structuralCfg()
	a := mustFreeze(t, []int{1, 2}, cfg)
	b := mustFreeze(t, int64(3), cfg)

	diffs := collect(t, a, b)
	if len(diffs) != 1 {
		t.Fatalf("got %d divergences, want 1", len(diffs))
	}
	d := diffs[0]
	if d.a.Path() != "a.kind()" || d.b.Path() != "b.kind()" {
		t.Errorf("paths = %q, %q; want a.kind(), b.kind()", d.a.Path(), d.b.Path())
	}
	if got := d.a.Node().String(); got != "sequence" {
		t.Errorf("a kind = %q, want sequence", got)
	}
	if got := d.b.Node().String(); got != "scalar" {
		t.Errorf("b kind = %q, want scalar", got)
	}
}

func TestIterate_NestedScenario(t *testing.T) {
	cfg := structuralCfg()
	a := mustFreeze(t, []any{
		0, 1, 2,
		map[int]struct{}{3: {}, 4: {}},
		map[string]int{"a": 5, "b": 6, "c": 7},
		8,
	}, cfg)
	b := mustFreeze(t, []any{
		0, 8, 2,
		map[int]struct{}{3: {}, 5: {}},
		map[string]int{"a": 5, "b": 7, "d": 8},
	}, cfg)

	want := []struct {
		aPath, aVal string
		bPath, bVal string
	}{
		{"a.len()", "6", "b.len()", "5"},
		{"a[1]", "1", "b[1]", "8"},
		{"a[3].has()", "4", "b[3].has()", "no such element"},
		{"a[3].has()", "no such element", "b[3].has()", "5"},
		{`a[4].keys().has()`, "c", `b[4].keys().has()`, "no such element"},
		{`a[4].keys().has()`, "no such element", `b[4].keys().has()`, "d"},
		{`a[4]["b"]`, "6", `b[4]["b"]`, "7"},
	}

	diffs := collect(t, a, b)
	if len(diffs) != len(want) {
		for _, d := range diffs {
			t.Logf("  %s | %s", d.a, d.b)
		}
		t.Fatalf("got %d divergences, want %d", len(diffs), len(want))
	}
	for i, w := range want {
		d := diffs[i]
		if d.a.Path() != w.aPath || d.a.Node().String() != w.aVal {
			t.Errorf("diff %d a side = %s == %s, want %s == %s",
				i, d.a.Path(), d.a.Node(), w.aPath, w.aVal)
		}
		if d.b.Path() != w.bPath || d.b.Node().String() != w.bVal {
			t.Errorf("diff %d b side = %s == %s, want %s == %s",
				i, d.b.Path(), d.b.Node(), w.bPath, w.bVal)
		}
	}
}

func TestIterate_OrderedMapRecords(t *testing.T) {
	// Without IgnoreMapOrder, maps freeze to key-sorted records and diff
	// through the record walk.
	cfg := freeze.NewStructural()
	a := mustFreeze(t, map[string]int{"x": 1, "y": 2}, cfg)
	b := mustFreeze(t, map[string]int{"x": 1, "y": 3}, cfg)

	diffs := collect(t, a, b)
	if len(diffs) != 1 {
		t.Fatalf("got %d divergences, want 1", len(diffs))
	}
	if got := diffs[0].a.Path(); got != `a["y"]` {
		t.Errorf("path = %q, want a[\"y\"]", got)
	}
}

func TestIterate_RecordKeySets(t *testing.T) {
	cfg := freeze.NewStructural()
	a := mustFreeze(t, map[string]int{"x": 1, "y": 2}, cfg)
	b := mustFreeze(t, map[string]int{"x": 1, "z": 2}, cfg)

	diffs := collect(t, a, b)
	if len(diffs) != 2 {
		t.Fatalf("got %d divergences, want 2", len(diffs))
	}
	if got := diffs[0].a.Path(); got != "a.keys().has()" {
		t.Errorf("first path = %q, want a.keys().has()", got)
	}
	if got := diffs[0].a.Node().String(); got != "y" {
		t.Errorf("a-only key = %q, want y", got)
	}
	if got := diffs[1].b.Node().String(); got != "z" {
		t.Errorf("b-only key = %q, want z", got)
	}
}

func TestIterate_Reiterable(t *testing.T) {
	cfg := structuralCfg()
	a := mustFreeze(t, []int{1, 2}, cfg)
	b := mustFreeze(t, []int{1, 3}, cfg)

	seq, err := Iterate(a, b)
	if err != nil {
		t.Fatal(err)
	}
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 1 || second != 1 {
		t.Errorf("counts across iterations = %d, %d; want 1, 1", first, second)
	}
}

func TestIterate_EarlyStop(t *testing.T) {
	cfg := structuralCfg()
	a := mustFreeze(t, []int{1, 2, 3}, cfg)
	b := mustFreeze(t, []int{9, 9, 9}, cfg)

	seq, err := Iterate(a, b)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("consumed %d divergences after break, want 1", n)
	}
}

func TestSummarize_SharedPrefix(t *testing.T) {
	cfg := structuralCfg()
	a := mustFreeze(t, []any{[]int{1, 2, 9}}, cfg)
	b := mustFreeze(t, []any{[]int{1, 3, 9}}, cfg)

	got, err := Summarize(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := "let a_sub = a[0][1]\n" +
		"let b_sub = b[0][1]\n" +
		"a_sub == 2\n" +
		"b_sub == 3"
	if got != want {
		t.Errorf("Summarize() =\n%s\nwant\n%s", got, want)
	}
}

func TestIterate_KeyedShapedSequence(t *testing.T) {
	// A sequence whose every element is a 2-element sequence diffs as a
	// keyed composite.
	cfg := structuralCfg()
	a := mustFreeze(t, [][]int{{1, 10}, {2, 20}}, cfg)
	b := mustFreeze(t, [][]int{{1, 10}, {2, 30}}, cfg)

	diffs := collect(t, a, b)
	if len(diffs) != 1 {
		t.Fatalf("got %d divergences, want 1", len(diffs))
	}
	if got := diffs[0].a.Path(); got != "a[2]" {
		t.Errorf("path = %q, want a[2] (keyed by the pair heads)", got)
	}
	if got := diffs[0].a.Node().String(); got != "20" {
		t.Errorf("a value = %q, want 20", got)
	}
	if got := diffs[0].b.Node().String(); got != "30" {
		t.Errorf("b value = %q, want 30", got)
	}
}

func TestSummarize_MultipleDivergences(t *testing.T) {
	cfg := structuralCfg()
	a := mustFreeze(t, []any{[]int{1, 2}, []int{5}}, cfg)
	b := mustFreeze(t, []any{[]int{1, 3}, []int{6}}, cfg)

	got, err := Summarize(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := "let a_sub = a\n" +
		"let b_sub = b\n" +
		"a_sub[0][1] == 2\n" +
		"b_sub[0][1] == 3\n" +
		"a_sub[1][0] == 5\n" +
		"b_sub[1][0] == 6"
	if got != want {
		t.Errorf("Summarize() =\n%s\nwant\n%s", got, want)
	}
}

func TestSummarize_NoDifferences(t *testing.T) {
	cfg := structuralCfg()
	a := mustFreeze(t, "same", cfg)
	b := mustFreeze(t, "same", cfg)

	got, err := Summarize(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got != "no differences" {
		t.Errorf("Summarize() = %q, want %q", got, "no differences")
	}
}

func TestLocation_Accessors(t *testing.T) {
	loc := rootLocation("a", fingerprint.Scalar{Value: int64(1)}).
		push("[0]", fingerprint.Scalar{Value: int64(2)})

	if got := loc.Path(); got != "a[0]" {
		t.Errorf("Path() = %q, want a[0]", got)
	}
	labels := loc.Labels()
	if len(labels) != 2 || labels[0] != "a" || labels[1] != "[0]" {
		t.Errorf("Labels() = %v", labels)
	}
	labels[0] = "mutated"
	if loc.Labels()[0] != "a" {
		t.Error("Labels() must return a copy")
	}
	if got := loc.String(); got != "a[0] == 2" {
		t.Errorf("String() = %q, want a[0] == 2", got)
	}
}
