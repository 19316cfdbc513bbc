// Package fingerprint derives deterministic content identifiers used as cache
// and session keys.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data. Identical content always
// yields the same fingerprint; distinct content collides only with
// cryptographically negligible probability. The value is a cache key, never a
// credential.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
