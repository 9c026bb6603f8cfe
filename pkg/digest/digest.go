// Package digest derives stable article identifiers.
package digest

import (
	"crypto/sha1" //nolint:gosec // identifier derivation, not security
	"encoding/hex"
)

// UID computes the stable identifier for a reference string. The same
// reference always yields the same uid.
func UID(reference string) string {
	sum := sha1.Sum([]byte(reference)) //nolint:gosec

	return hex.EncodeToString(sum[:])
}
