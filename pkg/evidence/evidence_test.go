package evidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

func TestCreatePipelineEvidenceCapturesGitInfo(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("main", "abc123")
	assert.Equal(t, "main", entry.Branch)
	assert.Equal(t, "abc123", entry.CommitHash)
	assert.NotEmpty(t, entry.ID)
}

func TestAppendCliExcerptTruncatesAt2KiB(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")

	long := strings.Repeat("x", 3000)
	require.NoError(t, s.AppendCliExcerpt(entry.ID, "agent-1", long))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got.CLIExcerpts["agent-1"]), maxCLIExcerpt)
	assert.True(t, strings.HasSuffix(got.CLIExcerpts["agent-1"], truncationSuffix))
}

func TestAppendCliExcerptLeavesShortOutputUntouched(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")
	require.NoError(t, s.AppendCliExcerpt(entry.ID, "agent-1", "short output"))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "short output", got.CLIExcerpts["agent-1"])
}

func TestAppendDiffSummaryTruncatesAt1KiB(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")
	long := strings.Repeat("diff ", 500)
	require.NoError(t, s.AppendDiffSummary(entry.ID, long))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got.DiffSummary), maxDiffSummary)
}

func TestTruncateIsIdempotent(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a", 5000)
	once := truncate(long, maxCLIExcerpt)
	twice := truncate(once, maxCLIExcerpt)
	assert.Equal(t, once, twice)
}

func TestLinkTicketToEvidenceIsIdempotent(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")
	require.NoError(t, s.LinkTicketToEvidence(entry.ID, "ticket-1"))
	require.NoError(t, s.LinkTicketToEvidence(entry.ID, "ticket-1"))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ticket-1"}, got.TicketIDs)
}

func TestAppendFileSnapshotDedupesByPathLastWriteWins(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")
	require.NoError(t, s.AppendFileSnapshot(entry.ID, "main.go", "package main"))
	require.NoError(t, s.AppendFileSnapshot(entry.ID, "main.go", "package main // v2"))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	require.Len(t, got.FileSnapshots, 1)
	assert.Equal(t, "package main // v2", got.FileSnapshots[0].Content)
	assert.NotEmpty(t, got.FileSnapshots[0].SHA256)
}

func TestAppendFileSnapshotTruncatesAt100KiB(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")
	huge := strings.Repeat("z", maxFileSnapshot*2)
	require.NoError(t, s.AppendFileSnapshot(entry.ID, "big.bin", huge))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.True(t, got.FileSnapshots[0].Truncated)
	assert.LessOrEqual(t, len(got.FileSnapshots[0].Content), maxFileSnapshot)
}

func TestLinkTestResultAndAppendScreenshot(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")
	require.NoError(t, s.LinkTestResult(entry.ID, models.TestLink{TestID: "t1", Passed: true}))
	require.NoError(t, s.AppendScreenshot(entry.ID, "screenshots/run1.png"))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, got.TestIDs)
	assert.Equal(t, []string{"screenshots/run1.png"}, got.Screenshots)
}

func TestAppendSecretScanMetadataAccumulates(t *testing.T) {
	t.Parallel()
	s := NewStore()
	entry := s.CreatePipelineEvidence("", "")
	require.NoError(t, s.AppendSecretScanMetadata(entry.ID, models.SecretScanMetadata{
		HighConfidenceCount: 1, FindingCount: 2, Findings: []string{"aws_key"},
	}))
	require.NoError(t, s.AppendSecretScanMetadata(entry.ID, models.SecretScanMetadata{
		HighConfidenceCount: 1, FindingCount: 1, Findings: []string{"github_token"},
	}))

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SecretScan.HighConfidenceCount)
	assert.Equal(t, 3, got.SecretScan.FindingCount)
	assert.ElementsMatch(t, []string{"aws_key", "github_token"}, got.SecretScan.Findings)
}

func TestOperationsOnUnknownIDReturnErrNotFound(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.AppendCliExcerpt("missing", "a", "x"), ErrNotFound)
	assert.ErrorIs(t, s.AppendDiffSummary("missing", "x"), ErrNotFound)
	assert.ErrorIs(t, s.LinkTicketToEvidence("missing", "t"), ErrNotFound)
	assert.ErrorIs(t, s.AppendFileSnapshot("missing", "p", "c"), ErrNotFound)
	assert.ErrorIs(t, s.LinkTestResult("missing", models.TestLink{}), ErrNotFound)
	assert.ErrorIs(t, s.AppendScreenshot("missing", "x"), ErrNotFound)
	assert.ErrorIs(t, s.AppendSecretScanMetadata("missing", models.SecretScanMetadata{}), ErrNotFound)
}
