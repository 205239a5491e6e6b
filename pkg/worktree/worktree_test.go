package worktree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	isRepo     bool
	addErr     error
	removeErr  error
	added      []string
	removed    []string
}

func (f *fakeGit) IsGitRepo(ctx context.Context, projectPath string) bool { return f.isRepo }

func (f *fakeGit) AddWorktree(ctx context.Context, projectPath, worktreePath, branch string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, worktreePath)
	return nil
}

func (f *fakeGit) RemoveWorktree(ctx context.Context, projectPath, worktreePath string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, worktreePath)
	return nil
}

func TestAcquireReturnsIsolatedWorktreeForGitRepo(t *testing.T) {
	t.Parallel()
	git := &fakeGit{isRepo: true}
	m := NewManager(git, t.TempDir(), true)

	h, err := m.Acquire(context.Background(), "/repo", "agent-1")
	require.NoError(t, err)
	assert.True(t, h.Isolated)
	assert.NotEqual(t, "/repo", h.Path)
	assert.Equal(t, 1, m.ActiveCount())
}

func TestAcquireFallsBackWhenIsolationDisabled(t *testing.T) {
	t.Parallel()
	git := &fakeGit{isRepo: true}
	m := NewManager(git, t.TempDir(), false)

	h, err := m.Acquire(context.Background(), "/repo", "agent-1")
	require.NoError(t, err)
	assert.False(t, h.Isolated)
	assert.Equal(t, "/repo", h.Path)
}

func TestAcquireFallsBackWhenNotGitRepo(t *testing.T) {
	t.Parallel()
	git := &fakeGit{isRepo: false}
	m := NewManager(git, t.TempDir(), true)

	h, err := m.Acquire(context.Background(), "/repo", "agent-1")
	require.NoError(t, err)
	assert.False(t, h.Isolated)
}

func TestAcquireFallsBackOnAddWorktreeFailure(t *testing.T) {
	t.Parallel()
	git := &fakeGit{isRepo: true, addErr: assert.AnError}
	m := NewManager(git, t.TempDir(), true)

	h, err := m.Acquire(context.Background(), "/repo", "agent-1")
	require.NoError(t, err)
	assert.False(t, h.Isolated, "worktree creation failure must fall back, not error out")
	assert.Equal(t, 0, m.ActiveCount())
}

func TestReleaseRemovesIsolatedWorktree(t *testing.T) {
	t.Parallel()
	git := &fakeGit{isRepo: true}
	m := NewManager(git, t.TempDir(), true)

	h, err := m.Acquire(context.Background(), "/repo", "agent-1")
	require.NoError(t, err)

	err = m.Release(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, 0, m.ActiveCount())
	assert.Len(t, git.removed, 1)
}

func TestReleaseNonIsolatedIsNoop(t *testing.T) {
	t.Parallel()
	git := &fakeGit{isRepo: false}
	m := NewManager(git, t.TempDir(), true)

	h, err := m.Acquire(context.Background(), "/repo", "agent-1")
	require.NoError(t, err)

	err = m.Release(context.Background(), h)
	require.NoError(t, err)
	assert.Empty(t, git.removed)
}

func TestReleaseAllTearsDownEveryActiveWorktree(t *testing.T) {
	t.Parallel()
	git := &fakeGit{isRepo: true}
	m := NewManager(git, t.TempDir(), true)

	_, err := m.Acquire(context.Background(), "/repo", "agent-1")
	require.NoError(t, err)
	_, err = m.Acquire(context.Background(), "/repo", "agent-2")
	require.NoError(t, err)

	require.NoError(t, m.ReleaseAll(context.Background()))
	assert.Equal(t, 0, m.ActiveCount())
	assert.Len(t, git.removed, 2)
}
