package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives a stable identifier for a column layout: the lowercase
// hex SHA-256 of the header names joined without separator. It returns an
// empty string for an empty header row.
func Fingerprint(headers []string) string {
	if len(headers) == 0 {
		return ""
	}
	sum := sha256.Sum256([]byte(strings.Join(headers, "")))
	return hex.EncodeToString(sum[:])
}

// SameFormat reports whether two header rows share a fingerprint.
func SameFormat(a, b []string) bool {
	return Fingerprint(a) == Fingerprint(b)
}
