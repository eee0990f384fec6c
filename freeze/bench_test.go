package freeze

import "testing"

type benchDoc struct {
	Title string
	Tags  []string
	Meta  map[string]int
}

func benchValue() benchDoc {
	return benchDoc{
		Title: "deterministic fingerprinting",
		Tags:  []string{"freeze", "hash", "memo"},
		Meta:  map[string]int{"rev": 7, "year": 2026},
	}
}

// BenchmarkFreeze_Hashed measures hashed-mode fingerprinting.
func BenchmarkFreeze_Hashed(b *testing.B) {
	cfg := New()
	v := benchValue()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Freeze(v, cfg)
	}
}

// BenchmarkFreeze_Structural measures structural-mode fingerprinting.
func BenchmarkFreeze_Structural(b *testing.B) {
	cfg := NewStructural()
	v := benchValue()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Freeze(v, cfg)
	}
}

// BenchmarkFreeze_LargeSlice measures traversal cost on a flat value.
func BenchmarkFreeze_LargeSlice(b *testing.B) {
	cfg := New()
	v := make([]int, 1000)
	for i := range v {
		v[i] = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Freeze(v, cfg)
	}
}

// BenchmarkFreeze_Blake3 measures the cryptographic hasher against the default.
func BenchmarkFreeze_Blake3(b *testing.B) {
	cfg := New()
	cfg.Hasher = Blake3Hash
	v := benchValue()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Freeze(v, cfg)
	}
}
