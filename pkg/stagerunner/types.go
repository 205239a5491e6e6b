// Package stagerunner implements the Stage Runner: bounded parallel
// spawning of N agents for a (role, prompt, settings) tuple, with
// staggered start, CLI/API supervision, output masking, MCP tool-call
// post-processing, worktree lifecycle, and output caching (spec.md
// §4.2). Grounded on the teacher's pkg/queue/worker.go poll/heartbeat
// loop and pkg/agent/orchestrator/runner.go's bounded concurrent
// dispatch with a results channel and reserved-slot guard.
package stagerunner

import (
	"time"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// AgentSpec describes one agent to spawn within a stage.
type AgentSpec struct {
	Label    string
	Provider string
	Prompt   string
}

// GateResult is the schema/confidence gate computed once a stage's
// agents have all terminated (spec.md §4.2).
type GateResult struct {
	Confidence    int
	Passed        bool
	PassRatePct   int
	AllSchemasOK  bool
	ValidCount    int
	TotalCount    int
}

// StageResult is what RunStage returns to the Orchestrator.
type StageResult struct {
	Outputs           []string
	Agents            []*models.AgentInstance
	ValidationResults []bool
	Gate              GateResult
	SystemMessages    []string
}

// Hooks are the observer callbacks the Orchestrator subscribes to for
// a single stage run (spec.md §5 "onAgentOutput"/"onAgentStatus").
// Every field is optional; nil hooks are simply not invoked.
type Hooks struct {
	OnAgentStatus   func(agent *models.AgentInstance)
	OnAgentOutput   func(agentID, chunk string)
	OnMCPToolResult func(agentID string, result string)
}

func (h Hooks) status(a *models.AgentInstance) {
	if h.OnAgentStatus != nil {
		h.OnAgentStatus(a.Clone())
	}
}

func (h Hooks) output(agentID, chunk string) {
	if h.OnAgentOutput != nil {
		h.OnAgentOutput(agentID, chunk)
	}
}

func (h Hooks) mcpResult(agentID, result string) {
	if h.OnMCPToolResult != nil {
		h.OnMCPToolResult(agentID, result)
	}
}

const spawnStagger = 200 * time.Millisecond
