// Package observe provides observability primitives for fingerprinting
// operations.
//
// It is a pure instrumentation library: no traversal, no caching, no I/O
// beyond exporter setup. Consumers wire the observer into the freeze engine
// (debug logging) and the memoizer (metrics, spans).
package observe
