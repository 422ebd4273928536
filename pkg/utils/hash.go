package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSecret returns the hex sha256 digest of a shared secret. The digest is
// deterministic: authorization and delete recompute it and compare against the
// stored value, so the plaintext is never persisted.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
