package worktree

import (
	"context"
	"os/exec"
)

// CLIGitRunner shells out to the system git binary, grounded on the
// madhatter5501-Factory git.WorktreeManager's runGit/runGitOutput
// idiom. It is the default GitRunner used outside tests.
type CLIGitRunner struct{}

func (CLIGitRunner) IsGitRepo(ctx context.Context, projectPath string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = projectPath
	return cmd.Run() == nil
}

func (CLIGitRunner) AddWorktree(ctx context.Context, projectPath, worktreePath, branch string) error {
	cmd := exec.CommandContext(ctx, "git", "worktree", "add", "-b", branch, worktreePath)
	cmd.Dir = projectPath
	return cmd.Run()
}

func (CLIGitRunner) RemoveWorktree(ctx context.Context, projectPath, worktreePath string) error {
	cmd := exec.CommandContext(ctx, "git", "worktree", "remove", "--force", worktreePath)
	cmd.Dir = projectPath
	return cmd.Run()
}
