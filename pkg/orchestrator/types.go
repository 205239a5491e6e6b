// Package orchestrator implements the top-level Orchestrator: mode
// detection, the chat/swarm/project mode runners, the continuous
// re-run loop, and cancellation (spec.md §4.1). Grounded on the
// teacher's pkg/agent/orchestrator/runner.go (sub-agent dispatch via a
// parent context, idempotent CancelAll, a single dependency bundle
// threaded into every sub-run), generalized from "sub-agents of one
// orchestrator LLM" to "stages of one pipeline run coordinating the
// Stage Runner".
package orchestrator

import (
	"context"

	"github.com/codeready-toolchain/agentforge/pkg/cache"
	"github.com/codeready-toolchain/agentforge/pkg/config"
	"github.com/codeready-toolchain/agentforge/pkg/evidence"
	"github.com/codeready-toolchain/agentforge/pkg/guardrail"
	"github.com/codeready-toolchain/agentforge/pkg/masking"
	"github.com/codeready-toolchain/agentforge/pkg/mcp"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/stagerunner"
	"github.com/codeready-toolchain/agentforge/pkg/ticket"
	"github.com/codeready-toolchain/agentforge/pkg/worktree"
)

// StatusReporter is the single interface the Orchestrator calls on
// every agent/stage transition, replacing the five loose callback
// values spec.md §6 describes (`onAgentOutput`, `onAgentStatus`,
// `onMCPToolResult` plus stage/job-level progress) with one collaborator,
// the in-process analogue of the teacher's `agent.EventPublisher`. Every
// method is called synchronously from the goroutine driving the stage;
// implementations that need to fan out should do so internally. A nil
// *StatusReporter (via NoopReporter) is always safe to pass.
type StatusReporter interface {
	OnAgentOutput(agentID, chunk string)
	OnAgentStatus(agent *models.AgentInstance)
	OnMCPToolResult(agentID, result string)
	OnStageComplete(stage string, result *stagerunner.StageResult)
	OnProgress(pct int, stage string)
}

// NoopReporter discards every callback; use it when the caller doesn't
// need progress updates.
type NoopReporter struct{}

func (NoopReporter) OnAgentOutput(string, string)                      {}
func (NoopReporter) OnAgentStatus(*models.AgentInstance)                {}
func (NoopReporter) OnMCPToolResult(string, string)                     {}
func (NoopReporter) OnStageComplete(string, *stagerunner.StageResult)   {}
func (NoopReporter) OnProgress(int, string)                             {}

// PipelineRequest is the Orchestrator's single entry point input
// (spec.md §4.1).
type PipelineRequest struct {
	Prompt      string
	Settings    *config.Settings
	ProjectPath string
	Mode        models.JobMode // empty triggers mode detection
	Reporter    StatusReporter
}

func (r PipelineRequest) reporter() StatusReporter {
	if r.Reporter == nil {
		return NoopReporter{}
	}
	return r.Reporter
}

func toHooks(r StatusReporter) stagerunner.Hooks {
	return stagerunner.Hooks{
		OnAgentStatus:   r.OnAgentStatus,
		OnAgentOutput:   r.OnAgentOutput,
		OnMCPToolResult: r.OnMCPToolResult,
	}
}

// ConditionInputsFunc adapts plain closures to ticket.ConditionInputs
// for wiring design-pack/dev-pack/code-review lookups supplied by the
// caller (all three are out-of-scope external collaborators).
type ConditionInputsFunc struct {
	DesignPack func(ticketID string) bool
	DevPack    func(ticketID string) bool
	CodeReview func(ticketID string) bool
}

func (f ConditionInputsFunc) HasDesignPack(id string) bool {
	if f.DesignPack == nil {
		return false
	}
	return f.DesignPack(id)
}

func (f ConditionInputsFunc) HasDevPack(id string) bool {
	if f.DevPack == nil {
		return false
	}
	return f.DevPack(id)
}

func (f ConditionInputsFunc) HasCodeReview(id string) bool {
	if f.CodeReview == nil {
		return false
	}
	return f.CodeReview(id)
}

// Orchestrator bundles every collaborator a pipeline run needs. All
// fields are shared across runs; per-run mutable state (agents created,
// cancellation) lives in the PipelineRequest's context and the returned
// SwarmResult.
type Orchestrator struct {
	Cache       *cache.Cache
	Masking     *masking.Service
	MCPExecutor *mcp.Executor
	WorktreeMgr *worktree.Manager
	Tickets     *ticket.Manager
	Evidence    *evidence.Store

	GuardrailPolicy func(in guardrail.Input) guardrail.Result
}

// New creates an Orchestrator wiring every collaborator package
// together. guardrailEval may be nil to use guardrail.Evaluate directly
// (tests substitute a stub to force refusal paths deterministically).
func New(c *cache.Cache, mask *masking.Service, mcpExec *mcp.Executor, wt *worktree.Manager, tickets *ticket.Manager, ev *evidence.Store) *Orchestrator {
	return &Orchestrator{
		Cache:           c,
		Masking:         mask,
		MCPExecutor:     mcpExec,
		WorktreeMgr:     wt,
		Tickets:         tickets,
		Evidence:        ev,
		GuardrailPolicy: guardrail.Evaluate,
	}
}

func (o *Orchestrator) deps(settings *config.Settings, projectPath string, hooks stagerunner.Hooks) *stagerunner.Deps {
	return &stagerunner.Deps{
		Settings:    settings,
		Cache:       o.Cache,
		Masking:     o.Masking,
		MCPExecutor: o.MCPExecutor,
		WorktreeMgr: o.WorktreeMgr,
		ProjectPath: projectPath,
		Hooks:       hooks,
		Evidence:    o.Evidence,
	}
}

// startEvidence opens the single pipeline evidence entry for one
// top-level Run call (spec.md §3 "created at pipeline start"), capturing
// the project's current branch/commit when projectPath is a git
// checkout. Returns "" when no Evidence store is wired.
func (o *Orchestrator) startEvidence(ctx context.Context, projectPath string) string {
	if o.Evidence == nil {
		return ""
	}
	branch, commit := resolveGitState(ctx, projectPath)
	entry := o.Evidence.CreatePipelineEvidence(branch, commit)
	return entry.ID
}

// recordAgentExcerpts appends every agent's CLI output to the pipeline
// evidence entry (spec.md §4.7). No-op when evidence isn't wired.
func (o *Orchestrator) recordAgentExcerpts(evidenceID string, agents []*models.AgentInstance) {
	if o.Evidence == nil || evidenceID == "" {
		return
	}
	for _, agent := range agents {
		_ = o.Evidence.AppendCliExcerpt(evidenceID, agent.ID, agent.Output)
	}
}
