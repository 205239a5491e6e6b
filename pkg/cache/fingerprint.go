// Package cache implements the Output Cache: a bounded
// fingerprint→result mapping with at-most-one-concurrent-build semantics
// and LRU+TTL eviction (spec.md §4.3).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a stable hash of (normalizedPrompt, provider),
// suitable as an Output Cache key (spec.md §4.3). Normalization lowercases
// and collapses whitespace so semantically identical prompts collide.
func Fingerprint(prompt, provider string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(prompt)), " ")
	sum := sha256.Sum256([]byte(normalized + "\x00" + provider))
	return hex.EncodeToString(sum[:])
}
