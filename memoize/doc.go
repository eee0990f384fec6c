// Package memoize provides deterministic result caching keyed by value
// fingerprints.
//
// A Memoizer maps (scope, input value) to a cached byte result. Keys are
// derived by fingerprinting the input, so structurally equal inputs share a
// cache entry regardless of pointer identity or map iteration order.
// Concurrent callers computing the same key are collapsed into one
// computation; errors are never cached.
package memoize
