package orchestrator

import (
	"context"
	"strings"

	"github.com/codeready-toolchain/agentforge/pkg/confidence"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/orcherr"
	"github.com/codeready-toolchain/agentforge/pkg/stagerunner"
	"github.com/codeready-toolchain/agentforge/pkg/ticket"
)

// maxTicketAttempts is how many times a single coder ticket is retried
// before it is escalated (spec.md §4.1 "After ≥3 failures of a ticket,
// create an escalation ticket").
const maxTicketAttempts = 3

// runProject plans, decomposes the plan into one coder ticket per
// top-level section via the Ticket Manager, executes those tickets
// sequentially (each with its own worktree, via the Stage Runner's
// per-agent worktree acquire), and finishes with a validate stage and
// security checks (spec.md §4.1 "Project mode").
func (o *Orchestrator) runProject(ctx context.Context, req PipelineRequest, providers []string) *models.SwarmResult {
	if o.Tickets == nil {
		return failedResult(orcherr.Wrap(orcherr.KindValidation, "project mode requires a Ticket Manager", nil, false, false))
	}

	settings := req.Settings
	reporter := req.reporter()
	hooks := toHooks(reporter)
	deps := o.deps(settings, req.ProjectPath, hooks)
	deps.EvidenceID = o.startEvidence(ctx, req.ProjectPath)
	var allAgents []*models.AgentInstance

	planSpecs := buildSpecs(models.RolePlanner, planPrompt(req.Prompt, nil), providers, parallelCount(settings.ParallelCounts, models.RolePlanner))
	planResult, err := stagerunner.RunStage(ctx, models.RolePlanner, planSpecs, deps)
	if err != nil {
		return failedResult(err)
	}
	allAgents = append(allAgents, planResult.Agents...)
	bestPlan := ""
	if idx := confidence.BestOfN(planResult.Outputs); idx >= 0 {
		bestPlan = planResult.Outputs[idx]
	}

	feature, err := o.Tickets.CreateTicket(ticket.CreateTicketRequest{
		ProjectID: req.ProjectPath, Title: "project: " + models.TruncatePromptSnippet(req.Prompt),
		Description: bestPlan, Level: models.LevelFeature,
	})
	if err != nil {
		return failedResult(err)
	}

	epic, err := o.Tickets.CreateTicket(ticket.CreateTicketRequest{
		ProjectID: req.ProjectPath, Title: "implement plan", Description: bestPlan,
		Level: models.LevelEpic, ParentID: feature.ID, AssignedRole: models.RoleCoder,
	})
	if err != nil {
		return failedResult(err)
	}

	sections := splitPlanSections(bestPlan)
	codeOutputs := make([]string, 0, len(sections))

	for _, section := range sections {
		if ctx.Err() != nil {
			return cancelledResult(allAgents)
		}

		sectionTicket, err := o.Tickets.CreateTicket(ticket.CreateTicketRequest{
			ProjectID: req.ProjectPath, Title: section.Title, Description: section.Body,
			Level: models.LevelStory, ParentID: epic.ID, AssignedRole: models.RoleCoder,
		})
		if err != nil {
			return failedResult(err)
		}

		output, agents, err := o.runCoderTicket(ctx, req, providers, deps, sectionTicket, section)
		allAgents = append(allAgents, agents...)
		if err != nil {
			return failedResult(err)
		}
		codeOutputs = append(codeOutputs, output)
	}
	codeOutput := strings.Join(codeOutputs, "\n\n")

	validateSpecs := buildSpecs(models.RoleValidator, validatePrompt(req.Prompt, []string{codeOutput}), providers, parallelCount(settings.ParallelCounts, models.RoleValidator))
	validateResult, err := stagerunner.RunStage(ctx, models.RoleValidator, validateSpecs, deps)
	if err != nil {
		return failedResult(err)
	}
	allAgents = append(allAgents, validateResult.Agents...)
	validateConf := confidence.TokenOverlapConfidence(validateResult.Outputs)

	checksPassed := runAutomatedChecks(ctx, settings.TestingConfig, req.ProjectPath)
	securitySpecs := buildSpecs(models.RoleSecurity, securityPrompt(req.Prompt, []string{codeOutput}, checksPassed), providers, parallelCount(settings.ParallelCounts, models.RoleSecurity))
	securityResult, err := stagerunner.RunStage(ctx, models.RoleSecurity, securitySpecs, deps)
	if err != nil {
		return failedResult(err)
	}
	allAgents = append(allAgents, securityResult.Agents...)
	securityConf := confidence.TokenOverlapConfidence(securityResult.Outputs)

	finalConfidence := confidence.FinalWeightedConfidence(map[string]int{
		"plan": confidence.TokenOverlapConfidence(planResult.Outputs), "code": confidence.TokenOverlapConfidence(codeOutputs),
		"validate": validateConf, "security": securityConf,
	})

	return &models.SwarmResult{
		FinalOutput:      codeOutput,
		Confidence:       finalConfidence,
		Agents:           allAgents,
		Sources:          extractSources([]string{codeOutput}),
		ValidationPassed: checksPassed,
	}
}

// runCoderTicket drives codeTicket through up to maxTicketAttempts
// spawn/review cycles, escalating on exhaustion (spec.md §4.1 "After
// ≥3 failures of a ticket, create an escalation ticket"). Every
// attempt's CLI excerpts are appended to deps.EvidenceID, the one
// pipeline-wide evidence entry opened by runProject.
func (o *Orchestrator) runCoderTicket(ctx context.Context, req PipelineRequest, providers []string, deps *stagerunner.Deps, codeTicket *models.Ticket, section planSection) (string, []*models.AgentInstance, error) {
	var codeOutput string
	var codeAgents []*models.AgentInstance

	for attempt := 1; attempt <= maxTicketAttempts; attempt++ {
		if ctx.Err() != nil {
			return codeOutput, codeAgents, ctx.Err()
		}
		if _, err := o.Tickets.ExecuteTransition(ctx, codeTicket.ID, ticketInProgressOrNoop(o.Tickets, codeTicket.ID), ticket.Actor{}); err != nil {
			// already in_progress from a prior attempt; ignore.
			_ = err
		}

		specs := buildSpecs(models.RoleCoder, codePrompt(req.Prompt, section.Body, nil), providers, 1)
		result, err := stagerunner.RunStage(ctx, models.RoleCoder, specs, deps)
		if err != nil {
			return codeOutput, codeAgents, err
		}
		codeAgents = append(codeAgents, result.Agents...)
		o.recordAgentExcerpts(deps.EvidenceID, result.Agents)

		if len(result.Outputs) > 0 {
			codeOutput = result.Outputs[0]
		}

		if o.Evidence != nil && deps.EvidenceID != "" {
			_ = o.Evidence.LinkTicketToEvidence(deps.EvidenceID, codeTicket.ID)
		}

		if result.Gate.Passed {
			o.Tickets.RecordTestResult(codeTicket.ID, true)
			_, _ = o.Tickets.ExecuteTransition(ctx, codeTicket.ID, models.TicketStatusReview, ticket.Actor{})
			_, _ = o.Tickets.ExecuteTransition(ctx, codeTicket.ID, models.TicketStatusApproved, ticket.Actor{Role: ticket.ActorEditor})
			_, _ = o.Tickets.ExecuteTransition(ctx, codeTicket.ID, models.TicketStatusDone, ticket.Actor{})
			break
		}

		if attempt == maxTicketAttempts {
			o.Tickets.RecordTestResult(codeTicket.ID, false)
			_, _ = o.Tickets.ExecuteTransition(ctx, codeTicket.ID, models.TicketStatusReview, ticket.Actor{})
			_, _ = o.Tickets.ExecuteTransition(ctx, codeTicket.ID, models.TicketStatusRejected, ticket.Actor{Role: ticket.ActorEditor})
			_, _ = o.Tickets.CreateEscalationTicket(codeTicket.ID, models.RoleCoder,
				"ticket failed "+models.TruncatePromptSnippet(codeOutput)+" after repeated attempts")
		}
	}

	return codeOutput, codeAgents, nil
}

// ticketInProgressOrNoop returns the in_progress target status for a
// fresh coder ticket; callers ignore the "no rule matches" error on
// retry attempts where the ticket is already in_progress.
func ticketInProgressOrNoop(mgr *ticket.Manager, ticketID string) models.TicketStatus {
	t, err := mgr.Get(ticketID)
	if err != nil {
		return models.TicketStatusInProgress
	}
	if t.Status != models.TicketStatusBacklog {
		return t.Status
	}
	return models.TicketStatusInProgress
}
