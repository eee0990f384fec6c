// Package freeze computes deterministic structural fingerprints of arbitrary
// Go value graphs, suitable for use as cache and memoization keys.
//
// Structurally equal inputs fingerprint identically within a process and
// across process runs; distinguishable inputs fingerprint differently with
// overwhelming probability. The engine walks the value graph depth-first
// through a pluggable adapter registry, detects cycles with a per-call tabu
// map, infers immutability bottom-up, and memoizes permanent values
// (functions, types, versioned descriptors) across calls.
//
// Traversal covers exported struct fields only; unexported state is invisible
// to the engine unless a type opts in through the Freezable hook or a
// registered adapter.
//
// The memo cache on a Config is intentionally unsynchronized. Concurrent
// Freeze calls sharing one Config must be serialized by the caller.
package freeze
