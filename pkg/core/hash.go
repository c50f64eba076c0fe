package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent computes the sha256 fingerprint of a dashboard document. The
// fingerprint is stored in the content-hash annotation and compared on every
// full-mode reconcile, so a content revert is detected where a timestamp
// marker would not be.
func HashContent(content string) string {
	if content == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
