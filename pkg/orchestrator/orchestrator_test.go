package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/agentforge/pkg/guardrail"
	"github.com/codeready-toolchain/agentforge/pkg/models"
)

func TestRunDetectsModeAndDispatchesToChat(t *testing.T) {
	o := testOrchestrator()
	settings := echoSettings("pkg/orchestrator/orchestrator.go handles dispatch")

	result := o.Run(context.Background(), PipelineRequest{
		Prompt: "what does this do?", Settings: settings,
	})

	require.NotNil(t, result)
	assert.Equal(t, 50, result.Confidence)
}

func TestRunHonorsExplicitMode(t *testing.T) {
	o := testOrchestrator()
	settings := echoSettings("pkg/orchestrator/orchestrator.go output for swarm")
	settings.AutoRerunThreshold = 0

	result := o.Run(context.Background(), PipelineRequest{
		Prompt: "this would normally be chat mode", Settings: settings, Mode: models.ModeSwarm,
	})

	require.NotNil(t, result)
	assert.NotContains(t, result.FinalOutput, "Pipeline failed")
}

func TestRunFailsCleanlyWithoutSettings(t *testing.T) {
	o := testOrchestrator()
	result := o.Run(context.Background(), PipelineRequest{Prompt: "anything"})
	require.NotNil(t, result)
	assert.Contains(t, result.FinalOutput, "Pipeline failed")
}

func TestRunRecoversFromPanicInModeRunner(t *testing.T) {
	o := testOrchestrator()
	o.GuardrailPolicy = func(guardrail.Input) guardrail.Result {
		panic("boom")
	}
	settings := echoSettings("pkg/orchestrator/orchestrator.go triggers the guardrail")

	result := o.Run(context.Background(), PipelineRequest{
		Prompt: "a short chat prompt", Settings: settings,
	})

	require.NotNil(t, result)
	assert.Contains(t, result.FinalOutput, "Pipeline failed")
	assert.Contains(t, result.FinalOutput, "panic")
}
