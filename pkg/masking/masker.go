// Package masking scans raw agent output for secrets and redacts them
// before the output is stored, cached, or appended to the evidence ledger
// (spec.md §4.2 step 1, §4.7 secret-scan metadata). The concrete rule
// bodies for any given secret-scanning product are an out-of-scope
// external collaborator (spec.md §1); this package owns the masking
// pipeline shape, not an exhaustive catalog of real-world secret formats.
package masking

// Masker is the interface for maskers that need structural awareness
// beyond a single regex substitution (e.g. only mask a specific field of
// a structured blob). Grounded on the teacher's pkg/masking.Masker.
type Masker interface {
	// Name returns the unique identifier for this masker.
	Name() string
	// AppliesTo performs a cheap pre-check (no parsing) before Mask is
	// invoked, so expensive maskers can be skipped on most output.
	AppliesTo(data string) bool
	// Mask applies masking logic and returns the masked result. Must be
	// defensive: return the original data on any parse/processing error.
	Mask(data string) string
}
