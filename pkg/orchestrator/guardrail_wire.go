package orchestrator

import (
	"context"

	"github.com/codeready-toolchain/agentforge/pkg/guardrail"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/orcherr"
)

// Default guardrail thresholds. spec.md §4.5 takes minConfidence and
// minEvidenceCount as caller-supplied inputs rather than Settings
// fields; these defaults mirror §4.4's evidence-sufficiency check
// (confidence ≥ 40, at least one source) since no example repo or
// spec.md section prescribes different values for the orchestrator
// call site.
const (
	defaultMinConfidence    = 40
	defaultMinEvidenceCount = 1
)

func (o *Orchestrator) evaluateGuardrail(output string, conf int, req PipelineRequest) guardrail.Result {
	sources := extractSources([]string{output})
	eval := o.GuardrailPolicy
	if eval == nil {
		eval = guardrail.Evaluate
	}
	return eval(guardrail.Input{
		MinConfidence:            defaultMinConfidence,
		MinEvidenceCount:         defaultMinEvidenceCount,
		Confidence:               conf,
		EvidenceCount:            len(sources),
		CandidateOutput:          output,
		UpstreamValidationPassed: true,
		Context: models.RefusalContext{
			Pipeline:      "orchestrator",
			Mode:          req.Mode,
			PromptSnippet: models.TruncatePromptSnippet(req.Prompt),
		},
	})
}

// escalateGuardrailRefusal creates a validator-assigned escalation
// ticket for a guardrail refusal when a Ticket Manager is wired
// (spec.md §4.5). Errors are swallowed: escalation is best-effort and
// must never fail the pipeline.
func (o *Orchestrator) escalateGuardrailRefusal(ctx context.Context, eval guardrail.Result, seedTicketID string) {
	if o.Tickets == nil || eval.RefusalPayload == nil {
		return
	}
	_, _ = guardrail.EscalateRefusal(ctx, o.Tickets, eval.RefusalPayload, seedTicketID)
}

func refusalResult(eval guardrail.Result, agents []*models.AgentInstance) *models.SwarmResult {
	return &models.SwarmResult{
		FinalOutput:      eval.RefusalPayload.Message,
		Confidence:       eval.RefusalPayload.Confidence,
		Agents:           agents,
		ValidationPassed: false,
		Refusal:          eval.RefusalPayload,
	}
}

func failedResult(err error) *models.SwarmResult {
	wrapped := err
	if orcherr.Is(err, orcherr.KindCancelled) {
		return &models.SwarmResult{
			FinalOutput:      "Pipeline cancelled: " + err.Error(),
			ValidationPassed: false,
		}
	}
	return &models.SwarmResult{
		FinalOutput:      "Pipeline failed: " + wrapped.Error(),
		Confidence:       0,
		ValidationPassed: false,
	}
}
