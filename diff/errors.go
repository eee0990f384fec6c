package diff

import "errors"

// ErrHashedFingerprint is returned when a fingerprint produced in hashed
// mode is handed to the diff engine. Hashed fingerprints are opaque
// integers; there is no tree to walk.
var ErrHashedFingerprint = errors.New("diff: fingerprint has no structural tree")
