// Package fingerprint defines the output vocabulary of the freeze engine.
//
// A Fingerprint is either an opaque 64-bit hash or a structural node tree.
// Structural fingerprints preserve the shape of the frozen value graph and
// can be diffed, rendered, and serialized; hashed fingerprints are compact
// and suitable for direct use as cache keys.
package fingerprint
