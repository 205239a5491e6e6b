package orchestrator

import (
	"context"
	"os/exec"
	"strings"
)

// resolveGitState captures the project checkout's current branch and
// commit for the evidence entry's provenance fields (spec.md §4.7),
// grounded on the same exec.CommandContext("git", ...) idiom as
// worktree.CLIGitRunner. Returns ("", "") when projectPath isn't a git
// checkout; errors are swallowed since provenance is best-effort.
func resolveGitState(ctx context.Context, projectPath string) (branch, commit string) {
	if projectPath == "" {
		return "", ""
	}
	branch = runGitOutput(ctx, projectPath, "rev-parse", "--abbrev-ref", "HEAD")
	commit = runGitOutput(ctx, projectPath, "rev-parse", "HEAD")
	return branch, commit
}

func runGitOutput(ctx context.Context, dir string, args ...string) string {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
