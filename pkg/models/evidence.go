package models

import "time"

// FileSnapshot is a captured file's content at a point in time
// (spec.md §3, ≤100 KiB, truncated with a suffix, deduplicated by path).
type FileSnapshot struct {
	Path      string
	Content   string
	SHA256    string
	Truncated bool
}

// SecretScanMetadata summarizes a secret-scan pass over an evidence entry's
// captured output (spec.md §4.7).
type SecretScanMetadata struct {
	HighConfidenceCount int
	FindingCount        int
	IgnoredPathCount    int
	Findings            []string
}

// TestLink records a linked test result (spec.md §4.7).
type TestLink struct {
	TestID  string
	Passed  bool
	Output  string
}

// EvidenceEntry is an append-only per-pipeline record (spec.md §3, §4.7).
type EvidenceEntry struct {
	ID            string
	Timestamp     time.Time
	Branch        string
	CommitHash    string
	DiffSummary   string
	CLIExcerpts   map[string]string // agentID -> excerpt, each ≤2KiB
	TestIDs       []string
	Tests         []TestLink
	TicketIDs     []string
	FileSnapshots []FileSnapshot
	Screenshots   []string
	SecretScan    SecretScanMetadata
}

// Clone returns a copy of e safe to hand to external observers.
func (e *EvidenceEntry) Clone() *EvidenceEntry {
	cp := *e
	cp.CLIExcerpts = make(map[string]string, len(e.CLIExcerpts))
	for k, v := range e.CLIExcerpts {
		cp.CLIExcerpts[k] = v
	}
	cp.TestIDs = append([]string(nil), e.TestIDs...)
	cp.Tests = append([]TestLink(nil), e.Tests...)
	cp.TicketIDs = append([]string(nil), e.TicketIDs...)
	cp.FileSnapshots = append([]FileSnapshot(nil), e.FileSnapshots...)
	cp.Screenshots = append([]string(nil), e.Screenshots...)
	cp.SecretScan.Findings = append([]string(nil), e.SecretScan.Findings...)
	return &cp
}
