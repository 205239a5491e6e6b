// Package evidence implements the Evidence Ledger: an append-only,
// per-pipeline record of branch/commit info, per-agent CLI excerpts,
// diff summaries, ticket links, file snapshots, test links, screenshots,
// and secret-scan metadata (spec.md §3, §4.7). Grounded on the teacher's
// pkg/services/timeline_service.go (create-then-append lifecycle) and
// pkg/services/errors.go's sentinel-error/ValidationError shape,
// generalized from an ent-backed store to a mutex-guarded in-memory one
// since persistent storage is an out-of-scope external collaborator.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// ErrNotFound is returned when an evidence entry ID is unknown.
var ErrNotFound = errors.New("evidence entry not found")

const (
	maxCLIExcerpt    = 2 * 1024
	maxDiffSummary   = 1 * 1024
	maxFileSnapshot  = 100 * 1024
	truncationSuffix = "\n...[truncated]"
)

// Store is the Evidence Ledger: a mutex-guarded map of pipeline-run
// evidence entries. Writes to a single entry are serialized by the
// store's lock; entries across pipelines are independent (spec.md §5).
type Store struct {
	mu      sync.Mutex
	entries map[string]*models.EvidenceEntry
	now     func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*models.EvidenceEntry), now: time.Now}
}

// CreatePipelineEvidence creates a new evidence entry for one pipeline
// run. branch/commitHash are supplied by the caller (resolving git
// state is an out-of-scope external collaborator; pass "" when
// projectPath is not a git repo).
func (s *Store) CreatePipelineEvidence(branch, commitHash string) *models.EvidenceEntry {
	entry := &models.EvidenceEntry{
		ID:          uuid.NewString(),
		Timestamp:   s.now(),
		Branch:      branch,
		CommitHash:  commitHash,
		CLIExcerpts: make(map[string]string),
	}

	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.mu.Unlock()

	return entry
}

// Get returns a copy of the entry for id.
func (s *Store) Get(id string) (*models.EvidenceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("get evidence %q: %w", id, ErrNotFound)
	}
	return entry.Clone(), nil
}

// AppendCliExcerpt records agent output under agentID, truncated to
// 2 KiB (spec.md §4.7).
func (s *Store) AppendCliExcerpt(id, agentID, output string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("append CLI excerpt to %q: %w", id, ErrNotFound)
	}
	entry.CLIExcerpts[agentID] = truncate(output, maxCLIExcerpt)
	return nil
}

// AppendDiffSummary records diffStat (the caller's already-captured
// `git diff --stat` output — running git itself is an out-of-scope
// external collaborator), truncated to 1 KiB.
func (s *Store) AppendDiffSummary(id, diffStat string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("append diff summary to %q: %w", id, ErrNotFound)
	}
	entry.DiffSummary = truncate(diffStat, maxDiffSummary)
	return nil
}

// LinkTicketToEvidence records ticketID against the entry. This is one
// half of the bidirectional link (spec.md §4.7); the caller is
// responsible for also recording the evidence ID on the ticket side via
// pkg/ticket, since the two stores must not import one another.
func (s *Store) LinkTicketToEvidence(id, ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("link ticket to evidence %q: %w", id, ErrNotFound)
	}
	for _, existing := range entry.TicketIDs {
		if existing == ticketID {
			return nil
		}
	}
	entry.TicketIDs = append(entry.TicketIDs, ticketID)
	return nil
}

// AppendFileSnapshot records a captured file's content at a point in
// time, truncated to 100 KiB with a sha256 computed over the (possibly
// truncated) stored content. Snapshots deduplicate by path: a later
// call for the same path replaces the earlier one (spec.md §4.7).
func (s *Store) AppendFileSnapshot(id, path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("append file snapshot to %q: %w", id, ErrNotFound)
	}

	truncated := len(content) > maxFileSnapshot
	stored := truncate(content, maxFileSnapshot)
	sum := sha256.Sum256([]byte(stored))

	snapshot := models.FileSnapshot{
		Path:      path,
		Content:   stored,
		SHA256:    hex.EncodeToString(sum[:]),
		Truncated: truncated,
	}

	for i, existing := range entry.FileSnapshots {
		if existing.Path == path {
			entry.FileSnapshots[i] = snapshot
			return nil
		}
	}
	entry.FileSnapshots = append(entry.FileSnapshots, snapshot)
	return nil
}

// LinkTestResult appends a test result link to the entry.
func (s *Store) LinkTestResult(id string, link models.TestLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("link test result to %q: %w", id, ErrNotFound)
	}
	entry.TestIDs = append(entry.TestIDs, link.TestID)
	entry.Tests = append(entry.Tests, link)
	return nil
}

// AppendScreenshot appends a screenshot reference to the entry.
func (s *Store) AppendScreenshot(id, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("append screenshot to %q: %w", id, ErrNotFound)
	}
	entry.Screenshots = append(entry.Screenshots, ref)
	return nil
}

// AppendSecretScanMetadata accumulates scan counters and findings onto
// the entry's running total — a pipeline run may mask output from many
// agents, and the ledger never clears or overwrites a prior scan
// (spec.md §4.7 "append-only").
func (s *Store) AppendSecretScanMetadata(id string, scan models.SecretScanMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("append secret scan metadata to %q: %w", id, ErrNotFound)
	}
	entry.SecretScan.HighConfidenceCount += scan.HighConfidenceCount
	entry.SecretScan.FindingCount += scan.FindingCount
	entry.SecretScan.IgnoredPathCount += scan.IgnoredPathCount
	entry.SecretScan.Findings = append(entry.SecretScan.Findings, scan.Findings...)
	return nil
}

// truncate returns s capped at max bytes, appending truncationSuffix
// when truncation occurred. Idempotent: truncating an already-truncated
// string never grows it further.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - len(truncationSuffix)
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + truncationSuffix
}
