package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/agentforge/pkg/config"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/stagerunner"
)

func TestDetectModeShortPromptIsChat(t *testing.T) {
	assert.Equal(t, models.ModeChat, DetectMode("what does this function do?"))
}

func TestDetectModeSwarmKeyword(t *testing.T) {
	assert.Equal(t, models.ModeSwarm, DetectMode("please refactor the auth package"))
}

func TestDetectModeLongProjectPrompt(t *testing.T) {
	long := "build a full project that implements a brand new customer onboarding " +
		"application with a REST API, a Postgres-backed store, background workers, " +
		"and a web dashboard, covering signup, billing, and support ticketing end to end"
	assert.Equal(t, models.ModeProject, DetectMode(long))
}

func TestProbeInstalledProvidersFallsBackToMock(t *testing.T) {
	settings := &config.Settings{}
	providers := ProbeInstalledProviders([]string{"definitely-not-a-real-cli-xyz"}, settings)
	assert.Equal(t, []string{stagerunner.MockProvider}, providers)
}

func TestProbeInstalledProvidersKeepsAPIBackedProvider(t *testing.T) {
	settings := &config.Settings{ProviderAPIKeys: map[string]string{"claude": "sk-test"}}
	providers := ProbeInstalledProviders([]string{"claude"}, settings)
	assert.Contains(t, providers, "claude")
}

func TestBuildSpecsRoundRobinsProvidersAndLabelsByIndex(t *testing.T) {
	specs := buildSpecs(models.RoleCoder, "do it", []string{"claude", "gpt"}, 4)
	assert.Len(t, specs, 4)
	assert.Equal(t, "coder-0", specs[0].Label)
	assert.Equal(t, "coder-3", specs[3].Label)
	assert.Equal(t, specs[0].Provider, specs[2].Provider)
	assert.Equal(t, specs[1].Provider, specs[3].Provider)
}

func TestExtractSourcesDeduplicatesAcrossOutputs(t *testing.T) {
	sources := extractSources([]string{
		"see pkg/orchestrator/swarm.go for details",
		"also pkg/orchestrator/swarm.go and pkg/ticket/manager.go",
	})
	assert.ElementsMatch(t, []string{"pkg/orchestrator/swarm.go", "pkg/ticket/manager.go"}, sources)
}
