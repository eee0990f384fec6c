package freeze

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Hasher folds a byte string into a 64-bit fingerprint component. Hashers
// must be pure: same bytes, same result, in any process.
type Hasher func([]byte) uint64

// XXHash is the default hasher: fast, non-cryptographic, stable across
// platforms.
func XXHash(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Blake3Hash derives the component from a BLAKE3 digest. Slower than XXHash
// but with a far larger security margin against engineered collisions.
// Cryptographic collision resistance is still not a guarantee of this
// package: the fold to 64 bits caps it.
func Blake3Hash(b []byte) uint64 {
	sum := blake3.Sum256(b)
	return binary.BigEndian.Uint64(sum[:8])
}
