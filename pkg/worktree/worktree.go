// Package worktree manages per-agent sandbox working directories backed
// by git worktrees, falling back to the shared project path when
// isolation is disabled or unavailable (spec.md §4.2, §6).
package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/codeready-toolchain/agentforge/pkg/orcherr"
	"github.com/google/uuid"
)

// Handle is a claimed worktree, either a dedicated directory or the
// shared project path (when isolation is disabled or git is unavailable).
type Handle struct {
	Path      string
	Branch    string
	Isolated  bool
	projectID string
}

// GitRunner executes the underlying `git worktree` plumbing. It is the
// out-of-scope "git CLI wrapper" collaborator (spec.md §1); this package
// depends only on this narrow interface so it can be faked in tests.
type GitRunner interface {
	IsGitRepo(ctx context.Context, projectPath string) bool
	AddWorktree(ctx context.Context, projectPath, worktreePath, branch string) error
	RemoveWorktree(ctx context.Context, projectPath, worktreePath string) error
}

// Manager creates and tears down per-agent worktrees, grounded on the
// teacher pack's worktree-pool lifecycle pattern (register on create,
// remove on cleanup, fall back when the store/tooling doesn't support
// it) generalized to a single in-process pool with no persistence.
type Manager struct {
	git       GitRunner
	baseDir   string
	isolation bool

	mu     sync.Mutex
	active map[string]*Handle // path -> handle, for observability/cleanup-all
}

// NewManager constructs a Manager. baseDir is where dedicated worktree
// directories are created (e.g. a temp dir); isolation mirrors
// Settings.WorktreeIsolation.
func NewManager(git GitRunner, baseDir string, isolation bool) *Manager {
	return &Manager{
		git:       git,
		baseDir:   baseDir,
		isolation: isolation,
		active:    make(map[string]*Handle),
	}
}

// Acquire creates a worktree for an agent under projectPath, or returns a
// non-isolated Handle pointing at projectPath itself when isolation is
// off or projectPath is not a git repo or worktree creation fails
// (spec.md §6: "fall back to projectPath on failure").
func (m *Manager) Acquire(ctx context.Context, projectPath, agentID string) (*Handle, error) {
	if !m.isolation || m.git == nil || !m.git.IsGitRepo(ctx, projectPath) {
		return &Handle{Path: projectPath, Isolated: false}, nil
	}

	branch := fmt.Sprintf("agentforge/%s", agentID)
	path := filepath.Join(m.baseDir, fmt.Sprintf("%s-%s", agentID, uuid.NewString()[:8]))

	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return &Handle{Path: projectPath, Isolated: false}, nil
	}

	if err := m.git.AddWorktree(ctx, projectPath, path, branch); err != nil {
		// Fall back rather than fail the agent over a RESOURCE error
		// (spec.md §6); the caller still sees a usable Handle.
		return &Handle{Path: projectPath, Isolated: false}, nil
	}

	h := &Handle{Path: path, Branch: branch, Isolated: true, projectID: projectPath}
	m.mu.Lock()
	m.active[path] = h
	m.mu.Unlock()
	return h, nil
}

// Release tears down a Handle's worktree, no-op for non-isolated
// handles. Cleanup runs on all exit paths (spec.md §6), so callers
// should defer Release immediately after a successful Acquire.
func (m *Manager) Release(ctx context.Context, h *Handle) error {
	if h == nil || !h.Isolated {
		return nil
	}

	m.mu.Lock()
	delete(m.active, h.Path)
	m.mu.Unlock()

	if err := m.git.RemoveWorktree(ctx, h.projectID, h.Path); err != nil {
		return orcherr.Wrap(orcherr.KindResource, "remove worktree", err, true, false)
	}
	return nil
}

// ActiveCount reports how many isolated worktrees are currently claimed.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// ReleaseAll tears down every currently active worktree, best-effort,
// collecting the first error encountered. Used on pipeline-level
// cancellation so no worktree outlives its owning run.
func (m *Manager) ReleaseAll(ctx context.Context) error {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.active))
	for _, h := range m.active {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := m.Release(ctx, h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
