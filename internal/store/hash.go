package store

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the 16-hex-char content hash spec.md §3 requires for
// FileRecord.content_hash: a fast non-cryptographic 64-bit hash of the raw
// file bytes. xxhash.Sum64 is a single 64-bit value, so the hex encoding is
// always exactly 16 characters.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}
