package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short returns the first eight characters of a digest, enough to
// show in a status line or log message.
func Short(sum string) string {
	if len(sum) <= 8 {
		return sum
	}
	return sum[:8]
}
