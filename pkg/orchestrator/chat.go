package orchestrator

import (
	"context"

	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/stagerunner"
)

// runChat drives a single coder agent on one provider, no worktree
// isolation, returning its output with a fixed confidence of 50 and any
// extracted sources (spec.md §4.1 "Chat mode").
func (o *Orchestrator) runChat(ctx context.Context, req PipelineRequest, providers []string) *models.SwarmResult {
	deps := o.deps(req.Settings, "", toHooks(req.reporter()))
	deps.WorktreeMgr = nil
	deps.EvidenceID = o.startEvidence(ctx, req.ProjectPath)

	specs := buildSpecs(models.RoleCoder, req.Prompt, providers, 1)
	result, err := stagerunner.RunStage(ctx, models.RoleCoder, specs, deps)
	if err != nil {
		return failedResult(err)
	}
	req.reporter().OnStageComplete("chat", result)
	o.recordAgentExcerpts(deps.EvidenceID, result.Agents)

	output := ""
	if len(result.Outputs) > 0 {
		output = result.Outputs[0]
	}

	eval := o.evaluateGuardrail(output, 50, req)
	if !eval.Passed {
		return refusalResult(eval, result.Agents)
	}

	return &models.SwarmResult{
		FinalOutput:      output,
		Confidence:       50,
		Agents:           result.Agents,
		Sources:          extractSources(result.Outputs),
		ValidationPassed: true,
	}
}
