package guardrail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/ticket"
)

func TestEvaluatePassesWhenEverythingMeetsThreshold(t *testing.T) {
	t.Parallel()
	result := Evaluate(Input{
		MinConfidence: 50, MinEvidenceCount: 1,
		Confidence: 80, EvidenceCount: 3,
		CandidateOutput:          "here is the patch",
		UpstreamValidationPassed: true,
	})
	assert.True(t, result.Passed)
	assert.Empty(t, result.Failures)
	assert.Nil(t, result.RefusalPayload)
}

func TestEvaluateAccumulatesAllFailuresWithoutShortCircuiting(t *testing.T) {
	t.Parallel()
	result := Evaluate(Input{
		MinConfidence: 80, MinEvidenceCount: 5,
		Confidence: 10, EvidenceCount: 0,
		CandidateOutput:          "I cannot complete this task",
		UpstreamValidationPassed: false,
	})
	require.False(t, result.Passed)
	assert.ElementsMatch(t, []models.RefusalReason{
		models.ReasonLowConfidence,
		models.ReasonInsufficientEvidence,
		models.ReasonUpstreamValidationFailed,
		models.ReasonExplicitRefusalTriggered,
	}, result.Failures)
	require.NotNil(t, result.RefusalPayload)
	assert.Equal(t, "guardrail_refusal", result.RefusalPayload.Type)
}

func TestEvaluateExplicitRefusalIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	result := Evaluate(Input{
		MinConfidence: 0, MinEvidenceCount: 0,
		Confidence: 100, EvidenceCount: 10,
		CandidateOutput:          "Sorry, INSUFFICIENT INFORMATION to proceed",
		UpstreamValidationPassed: true,
	})
	require.False(t, result.Passed)
	assert.Equal(t, []models.RefusalReason{models.ReasonExplicitRefusalTriggered}, result.Failures)
}

func TestEscalateRefusalCreatesValidatorAssignedTicket(t *testing.T) {
	t.Parallel()
	mgr := ticket.NewManager(nil, ticket.EscalationPolicy{}, nil, nil)
	payload := &models.RefusalPayload{
		Type:    "guardrail_refusal",
		Message: "guardrail refused output: LOW_CONFIDENCE",
		Reasons: []models.RefusalReason{models.ReasonLowConfidence},
		Context: models.RefusalContext{PromptSnippet: "fix the bug"},
	}

	esc, err := EscalateRefusal(context.Background(), mgr, payload, "seed-ticket-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleValidator, esc.AssignedRole)
	assert.Equal(t, models.TicketTypeEscalation, esc.Type)
	assert.Equal(t, "seed-ticket-1", esc.OriginalTicketID)
	assert.Contains(t, esc.Dependencies, "seed-ticket-1")
}

func TestEscalateRefusalRejectsNilPayload(t *testing.T) {
	t.Parallel()
	mgr := ticket.NewManager(nil, ticket.EscalationPolicy{}, nil, nil)
	_, err := EscalateRefusal(context.Background(), mgr, nil, "seed")
	assert.Error(t, err)
}
