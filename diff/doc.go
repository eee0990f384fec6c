// Package diff explains why two structural fingerprints differ.
//
// Iterate co-walks two fingerprint trees and reports each point of
// divergence as a pair of Locations, one per side, rooted at "a" and "b".
// The walk is shape-directed: records compare key-sets before shared
// values, sequences compare length before elements, sets report one-sided
// membership, and an order-erased mapping (a set whose elements are all
// key/value pairs) is recognized and compared keyed rather than as an
// opaque set.
//
// Only structural fingerprints can be diffed; hashed ones carry no tree to
// walk and are rejected with ErrHashedFingerprint.
//
// Divergence sequences are lazy, finite, and independently re-iterable.
// Summarize renders them for humans, folding the longest shared path
// prefix into a single header.
package diff
