// Package guardrail implements the Guardrail Policy: a pure
// failure-accumulation check run against a candidate output before it
// is allowed to reach a caller, plus the hook that turns a refusal into
// a ticket the Ticket Manager can route to a human (spec.md §4.5).
// There is no teacher analogue for a standalone refusal gate — this is
// grounded directly on spec.md §4.5's failure-code table, with the
// escalation-ticket wiring grounded on pkg/ticket's CreateEscalationTicket.
package guardrail

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/ticket"
)

// explicitRefusalPhrases are matched case-insensitively against a
// candidate output (spec.md §4.5).
var explicitRefusalPhrases = []string{
	"i cannot",
	"i can't",
	"unable to",
	"insufficient information",
	"not enough context",
}

// Input bundles everything the Guardrail Policy evaluates.
type Input struct {
	MinConfidence             int
	MinEvidenceCount          int
	Confidence                int
	EvidenceCount             int
	CandidateOutput           string
	UpstreamValidationPassed  bool
	Context                   models.RefusalContext
}

// Result is the outcome of evaluating Input.
type Result struct {
	Passed         bool
	Failures       []models.RefusalReason
	RefusalPayload *models.RefusalPayload
}

// Evaluate accumulates every failing check rather than short-circuiting
// on the first one (spec.md §4.5 "accumulate, do not short-circuit").
func Evaluate(in Input) Result {
	var failures []models.RefusalReason

	if in.Confidence < in.MinConfidence {
		failures = append(failures, models.ReasonLowConfidence)
	}
	if in.EvidenceCount < in.MinEvidenceCount {
		failures = append(failures, models.ReasonInsufficientEvidence)
	}
	if !in.UpstreamValidationPassed {
		failures = append(failures, models.ReasonUpstreamValidationFailed)
	}
	if matchesExplicitRefusal(in.CandidateOutput) {
		failures = append(failures, models.ReasonExplicitRefusalTriggered)
	}

	if len(failures) == 0 {
		return Result{Passed: true}
	}

	payload := &models.RefusalPayload{
		Type:          "guardrail_refusal",
		Message:       refusalMessage(failures),
		Reasons:       failures,
		Confidence:    in.Confidence,
		EvidenceCount: in.EvidenceCount,
		Policy: models.RefusalPolicy{
			MinConfidence:    in.MinConfidence,
			MinEvidenceCount: in.MinEvidenceCount,
		},
		Context: in.Context,
	}

	return Result{Passed: false, Failures: failures, RefusalPayload: payload}
}

func matchesExplicitRefusal(output string) bool {
	lower := strings.ToLower(output)
	for _, phrase := range explicitRefusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func refusalMessage(failures []models.RefusalReason) string {
	names := make([]string, len(failures))
	for i, f := range failures {
		names[i] = string(f)
	}
	return "guardrail refused output: " + strings.Join(names, ", ")
}

// EscalateRefusal creates a guardrail-escalation ticket for a refusal,
// assigned to the validator role and linked to seedTicketID when one
// exists (spec.md §4.5: "create a guardrail-escalation ticket... linked
// by type=escalation to the seed").
func EscalateRefusal(ctx context.Context, mgr *ticket.Manager, payload *models.RefusalPayload, seedTicketID string) (*models.Ticket, error) {
	if payload == nil {
		return nil, fmt.Errorf("escalate refusal: nil payload")
	}
	description := fmt.Sprintf("%s\nprompt: %s", payload.Message, payload.Context.PromptSnippet)
	return mgr.CreateEscalationTicket(seedTicketID, models.RoleValidator, description)
}
