package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// Run is the single entrypoint for all three pipeline modes. It detects
// the mode when the caller leaves it unset, probes for an installed
// provider, and dispatches to the matching mode runner. Every mode
// runner is expected to always produce a SwarmResult: spec.md §7 lists
// no fatal error class for the top-level pipeline, so a panic inside a
// mode runner is recovered here and converted into a failed result
// instead of crashing the process (grounded on the teacher's
// SubAgentRunner, which never lets a single sub-agent panic take down
// the run loop).
func (o *Orchestrator) Run(ctx context.Context, req PipelineRequest) (result *models.SwarmResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("orchestrator: recovered from panic", "panic", r, "mode", req.Mode)
			result = failedResult(fmt.Errorf("pipeline panic: %v", r))
		}
	}()

	mode := req.Mode
	if mode == "" {
		mode = DetectMode(req.Prompt)
		req.Mode = mode
	}

	if req.Settings == nil {
		return failedResult(fmt.Errorf("pipeline request missing settings"))
	}

	providers := ProbeInstalledProviders(req.Settings.EnabledProviders, req.Settings)
	slog.Info("orchestrator: starting pipeline", "mode", mode, "providers", providers)

	switch mode {
	case models.ModeChat:
		return o.runChat(ctx, req, providers)
	case models.ModeSwarm:
		return o.runSwarm(ctx, req, providers)
	case models.ModeProject:
		return o.runProject(ctx, req, providers)
	default:
		return failedResult(fmt.Errorf("unknown pipeline mode %q", mode))
	}
}
