package testutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the SHA-256 digest of data as a lowercase hex string.
// Matches the digest format produced by ft.Hasher and the audit log.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// EmptyDigest is the digest of a zero-byte file.
var EmptyDigest = SHA256Hex(nil)
