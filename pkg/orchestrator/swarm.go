package orchestrator

import (
	"context"

	"github.com/codeready-toolchain/agentforge/pkg/confidence"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/orcherr"
	"github.com/codeready-toolchain/agentforge/pkg/stagerunner"
)

// maxContinuousAttempts bounds the continuous-mode re-run loop (spec.md
// §4.1 "repeat the entire 6-stage loop up to 3 attempts total").
const maxContinuousAttempts = 3

// parallelCount returns the configured agent count for role, clamped to
// at least 1 so a misconfigured or zero-valued parallelCounts entry
// never drops a stage to zero agents.
func parallelCount(counts map[models.Role]int, role models.Role) int {
	n := counts[role]
	if n <= 0 {
		return 1
	}
	return n
}

// runSwarm drives the 6-stage swarm pipeline (research, plan, code,
// validate, security, synthesize), optionally repeating it when
// continuous mode is enabled and confidence remains below threshold
// (spec.md §4.1 "Swarm mode").
func (o *Orchestrator) runSwarm(ctx context.Context, req PipelineRequest, providers []string) *models.SwarmResult {
	attempts := 1
	if req.Settings.ContinuousMode {
		attempts = maxContinuousAttempts
	}

	evidenceID := o.startEvidence(ctx, req.ProjectPath)

	var allAgents []*models.AgentInstance
	var final *models.SwarmResult

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return cancelledResult(allAgents)
		}

		result, agents, err := o.runOneSwarmPass(ctx, req, providers, evidenceID)
		allAgents = append(allAgents, agents...)
		if err != nil {
			return failedResult(err)
		}
		result.Agents = allAgents
		final = result

		if !req.Settings.ContinuousMode || final.Confidence >= req.Settings.AutoRerunThreshold {
			break
		}
	}

	return final
}

func (o *Orchestrator) runOneSwarmPass(ctx context.Context, req PipelineRequest, providers []string, evidenceID string) (*models.SwarmResult, []*models.AgentInstance, error) {
	settings := req.Settings
	reporter := req.reporter()
	hooks := toHooks(reporter)
	deps := o.deps(settings, req.ProjectPath, hooks)
	deps.EvidenceID = evidenceID
	var passAgents []*models.AgentInstance

	stageConf := map[string]int{}

	runAndCollect := func(role models.Role, prompt string, d *stagerunner.Deps) (*stagerunner.StageResult, error) {
		n := parallelCount(settings.ParallelCounts, role)
		specs := buildSpecs(role, prompt, providers, n)
		res, err := stagerunner.RunStage(ctx, role, specs, d)
		if err != nil {
			return nil, err
		}
		passAgents = append(passAgents, res.Agents...)
		o.recordAgentExcerpts(evidenceID, res.Agents)
		for _, m := range res.SystemMessages {
			reporter.OnAgentOutput("system", m)
		}
		reporter.OnStageComplete(string(role), res)
		return res, nil
	}

	research, err := runAndCollect(models.RoleResearcher, researchPrompt(req.Prompt, settings.ResearchDepth), deps)
	if err != nil {
		return nil, passAgents, orcherr.Wrap(orcherr.KindResource, "research stage failed", err, true, false)
	}
	stageConf["research"] = confidence.TokenOverlapConfidence(research.Outputs)
	reporter.OnProgress(10, "research")

	plan, err := runAndCollect(models.RolePlanner, planPrompt(req.Prompt, research.Outputs), deps)
	if err != nil {
		return nil, passAgents, orcherr.Wrap(orcherr.KindResource, "plan stage failed", err, true, false)
	}
	stageConf["plan"] = confidence.TokenOverlapConfidence(plan.Outputs)
	bestPlan := ""
	if idx := confidence.BestOfN(plan.Outputs); idx >= 0 {
		bestPlan = plan.Outputs[idx]
	}
	reporter.OnProgress(25, "plan")

	code, err := runAndCollect(models.RoleCoder, codePrompt(req.Prompt, bestPlan, nil), deps)
	if err != nil {
		return nil, passAgents, orcherr.Wrap(orcherr.KindResource, "code stage failed", err, true, false)
	}
	stageConf["code"] = confidence.TokenOverlapConfidence(code.Outputs)
	reporter.OnProgress(45, "code")

	validate, err := runAndCollect(models.RoleValidator, validatePrompt(req.Prompt, code.Outputs), deps)
	if err != nil {
		return nil, passAgents, orcherr.Wrap(orcherr.KindResource, "validate stage failed", err, true, false)
	}
	validateConf := confidence.TokenOverlapConfidence(validate.Outputs)
	if validateConf < settings.AutoRerunThreshold {
		rerun, err := runAndCollect(models.RoleValidator, validatePrompt(req.Prompt, code.Outputs), deps)
		if err == nil {
			validate = rerun
			validateConf = confidence.TokenOverlapConfidence(validate.Outputs)
		}
	}
	stageConf["validate"] = validateConf
	reporter.OnProgress(65, "validate")

	checksPassed := runAutomatedChecks(ctx, settings.TestingConfig, req.ProjectPath)
	security, err := runAndCollect(models.RoleSecurity, securityPrompt(req.Prompt, code.Outputs, checksPassed), deps)
	if err != nil {
		return nil, passAgents, orcherr.Wrap(orcherr.KindResource, "security stage failed", err, true, false)
	}
	securityConf := confidence.TokenOverlapConfidence(security.Outputs)
	if !checksPassed && settings.CodeValidation.BlockOnErrors {
		securityConf = 0
	}
	stageConf["security"] = securityConf
	reporter.OnProgress(85, "security")

	finalConfidence := confidence.FinalWeightedConfidence(stageConf)
	sources := extractSources(append(append([]string{}, code.Outputs...), validate.Outputs...))

	if finalConfidence < 30 && len(sources) == 0 {
		return &models.SwarmResult{
			FinalOutput:      "refused",
			Confidence:       finalConfidence,
			Sources:          sources,
			ValidationPassed: false,
		}, passAgents, nil
	}

	synth, err := runAndCollect(models.RoleSynthesizer, synthesizePrompt(req.Prompt, bestPlan, code.Outputs, validate.Outputs, security.Outputs), deps)
	if err != nil {
		return nil, passAgents, orcherr.Wrap(orcherr.KindResource, "synthesize stage failed", err, true, false)
	}
	output := ""
	if len(synth.Outputs) > 0 {
		output = synth.Outputs[0]
	}
	reporter.OnProgress(100, "synthesize")

	eval := o.evaluateGuardrail(output, finalConfidence, req)
	if !eval.Passed {
		o.escalateGuardrailRefusal(ctx, eval, "")
		return refusalResult(eval, passAgents), passAgents, nil
	}

	return &models.SwarmResult{
		FinalOutput:      output,
		Confidence:       finalConfidence,
		Sources:          sources,
		ValidationPassed: checksPassed || !settings.CodeValidation.BlockOnErrors,
	}, passAgents, nil
}

func cancelledResult(agents []*models.AgentInstance) *models.SwarmResult {
	return &models.SwarmResult{
		FinalOutput:      "Pipeline cancelled",
		Confidence:       0,
		Agents:           agents,
		ValidationPassed: false,
	}
}
