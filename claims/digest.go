package claims

import (
	"crypto/sha256"
	"encoding/hex"
)

// EvidenceHash returns the 0x-prefixed sha256 digest of the raw evidence bytes.
// The digest commits to the image content, not to its semantics.
func EvidenceHash(data []byte) string {
	sum := sha256.Sum256(data)
	return "0x" + hex.EncodeToString(sum[:])
}
