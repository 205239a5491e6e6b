package models

import "time"

// CacheEntry is a stored prior result for a (prompt, provider)
// fingerprint (spec.md §3, §4.3).
type CacheEntry struct {
	Fingerprint string
	Provider    string
	Output      string
	Confidence  int
	CreatedAt   time.Time
	InFlight    bool
}
