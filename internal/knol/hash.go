// Package knol fingerprints card content so imports can recognize cards they
// already added.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize joins the front and back after lowercasing, trimming and
// normalizing line endings of each.
func Normalize(front, back string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}
	return normalizePart(front) + "\n" + normalizePart(back)
}

// Hash returns the SHA-256 of the normalized content as a hex string.
func Hash(front, back string) string {
	sum := sha256.Sum256([]byte(Normalize(front, back)))
	return fmt.Sprintf("%x", sum)
}
