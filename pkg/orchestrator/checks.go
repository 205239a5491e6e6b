package orchestrator

import (
	"context"
	"os/exec"

	"github.com/codeready-toolchain/agentforge/pkg/config"
)

// runAutomatedChecks runs the configured typecheck/lint/audit command
// ahead of the security stage's agents (spec.md §4.1 step 5: "automated
// checks ... followed by security agents"). Secret scanning itself
// already runs per-agent through pkg/masking inside the Stage Runner;
// this only covers the externally-configured command. A disabled or
// unconfigured TestingConfig always passes.
func runAutomatedChecks(ctx context.Context, cfg config.TestingConfig, projectPath string) bool {
	if !cfg.Enabled || cfg.CustomCommand.Command == "" {
		return true
	}
	cmd := exec.CommandContext(ctx, cfg.CustomCommand.Command, cfg.CustomCommand.Args...)
	cmd.Dir = projectPath
	return cmd.Run() == nil
}
