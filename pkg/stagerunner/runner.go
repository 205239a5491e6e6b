package stagerunner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeready-toolchain/agentforge/pkg/cache"
	"github.com/codeready-toolchain/agentforge/pkg/config"
	"github.com/codeready-toolchain/agentforge/pkg/confidence"
	"github.com/codeready-toolchain/agentforge/pkg/evidence"
	"github.com/codeready-toolchain/agentforge/pkg/masking"
	"github.com/codeready-toolchain/agentforge/pkg/mcp"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/worktree"
	"github.com/google/uuid"
)

// cacheHitThreshold is the minimum cached confidence that lets a cache
// read skip the spawn entirely (spec.md §4.2 "cache read before spawn").
const cacheHitThreshold = 70

// Deps bundles the Stage Runner's external collaborators. WorktreeMgr
// and MCPExecutor may be nil (worktree isolation / MCP both optional).
type Deps struct {
	Settings    *config.Settings
	Cache       *cache.Cache
	Masking     *masking.Service
	MCPExecutor *mcp.Executor
	WorktreeMgr *worktree.Manager
	ProjectPath string
	Hooks       Hooks

	// Evidence and EvidenceID are optional. When both are set, each
	// agent's secret-scan findings are appended to the ledger entry
	// (spec.md §4.2 step 1, §4.7).
	Evidence   *evidence.Store
	EvidenceID string
}

// RunStage runs len(specs) agents for role, one per AgentSpec, applying
// the full spawn/supervise/post-process pipeline, and returns the
// aggregated StageResult once every agent has terminated (spec.md
// §4.2, §5 "stage barrier").
func RunStage(ctx context.Context, role models.Role, specs []AgentSpec, deps *Deps) (*StageResult, error) {
	n := len(specs)
	agents := make([]*models.AgentInstance, n)
	outputs := make([]string, n)
	schemaValid := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)

	for i := range specs {
		i := i
		spec := specs[i]

		agent := &models.AgentInstance{
			ID:       uuid.NewString(),
			Role:     role,
			Label:    spec.Label,
			Provider: spec.Provider,
			Status:   models.AgentStatusPending,
		}
		agents[i] = agent

		g.Go(func() error {
			select {
			case <-time.After(time.Duration(i) * spawnStagger):
			case <-gctx.Done():
				agent.SetStatus(models.AgentStatusCancelled, nil, time.Now())
				deps.Hooks.status(agent)
				return nil
			}

			output, _ := runOneAgent(gctx, agent, spec, deps)
			outputs[i] = output
			schemaValid[i] = ValidateSchema(role, output)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	gate := ComputeGate(role, outputs, schemaValid)

	result := &StageResult{
		Outputs:           outputs,
		Agents:            agents,
		ValidationResults: schemaValid,
		Gate:              gate,
	}
	if !gate.Passed {
		result.SystemMessages = append(result.SystemMessages,
			fmt.Sprintf("system: %s stage confidence gate failed (%d < threshold)", role, gate.Confidence))
	}
	return result, nil
}

// runOneAgent drives a single agent through cache-read, worktree
// acquire, spawn+retry+chats, masking, MCP post-processing, and
// cache write-back, updating agent's status at each transition.
func runOneAgent(ctx context.Context, agent *models.AgentInstance, spec AgentSpec, deps *Deps) (output string, exitCode int) {
	now := time.Now
	fp := cache.Fingerprint(spec.Prompt, spec.Provider)

	if entry, ok := deps.Cache.Get(fp); ok && entry.Confidence > cacheHitThreshold {
		agent.SetStatus(models.AgentStatusSpawning, nil, now())
		deps.Hooks.status(agent)
		zero := 0
		agent.Output = entry.Output
		agent.SetStatus(models.AgentStatusCompleted, &zero, now())
		deps.Hooks.status(agent)
		return entry.Output, 0
	}

	agent.SetStatus(models.AgentStatusSpawning, nil, now())
	deps.Hooks.status(agent)

	wt := &worktree.Handle{Path: deps.ProjectPath}
	if deps.WorktreeMgr != nil {
		wt, _ = deps.WorktreeMgr.Acquire(ctx, deps.ProjectPath, agent.ID)
		defer deps.WorktreeMgr.Release(ctx, wt)
	}
	agent.Worktree = wt.Path

	agent.SetStatus(models.AgentStatusRunning, nil, now())
	deps.Hooks.status(agent)

	maxRuntime := time.Duration(deps.Settings.MaxRuntimeSeconds) * time.Second
	retryDelay := time.Duration(deps.Settings.RetryDelayMs) * time.Millisecond
	apiKey := deps.Settings.ProviderAPIKeys[spec.Provider]

	runChat := func(chatCtx context.Context) (CLIResult, error) {
		return RunWithRetry(chatCtx, deps.Settings.MaxRetries, retryDelay, func() (CLIResult, error) {
			if UseAPIMode(spec.Provider, deps.Settings.ProviderAPIKeys) {
				return spawnAPI(chatCtx, spec.Provider, apiKey, spec.Prompt)
			}
			tmpl := ResolveCLITemplate(spec.Provider, deps.Settings.CustomCLICommand)
			return SpawnCLI(chatCtx, tmpl, spec.Prompt, spec.Provider, apiKey, wt.Path, maxRuntime)
		})
	}

	raw, code, err := RunChats(ctx, deps.Settings.ChatsPerAgent, runChat)

	finalStatus := models.AgentStatusCompleted
	if err != nil || code != 0 {
		finalStatus = models.AgentStatusFailed
	}
	if ctx.Err() == context.Canceled {
		finalStatus = models.AgentStatusCancelled
	}

	masked := raw
	if deps.Masking != nil && raw != "" {
		var scan models.SecretScanMetadata
		masked, scan = deps.Masking.Scan(raw)
		if deps.Evidence != nil && deps.EvidenceID != "" {
			_ = deps.Evidence.AppendSecretScanMetadata(deps.EvidenceID, scan)
		}
	}

	processed := PostProcessMCP(ctx, deps.MCPExecutor, agent.ID, masked, deps.Hooks.mcpResult)
	deps.Hooks.output(agent.ID, processed)

	if finalStatus == models.AgentStatusCompleted && processed != "" {
		conf := confidence.TokenOverlapConfidence([]string{processed})
		deps.Cache.Put(fp, spec.Provider, processed, conf)
	}

	agent.Output = processed
	codeCopy := code
	agent.SetStatus(finalStatus, &codeCopy, now())
	deps.Hooks.status(agent)

	return processed, code
}
