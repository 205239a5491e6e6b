package orchestrator

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/agentforge/pkg/confidence"
	"github.com/codeready-toolchain/agentforge/pkg/config"
	"github.com/codeready-toolchain/agentforge/pkg/models"
	"github.com/codeready-toolchain/agentforge/pkg/stagerunner"
)

var projectModeKeywords = []string{
	"build", "create app", "full project", "application", "implement system",
}

var swarmModeKeywords = []string{
	"refactor", "review", "fix", "optimize", "test", "security audit", "code",
}

// DetectMode applies spec.md §4.1's mode-detection heuristic when the
// caller omits an explicit mode.
func DetectMode(prompt string) models.JobMode {
	lower := strings.ToLower(prompt)
	if len(prompt) > 200 && containsAny(lower, projectModeKeywords) {
		return models.ModeProject
	}
	if containsAny(lower, swarmModeKeywords) {
		return models.ModeSwarm
	}
	return models.ModeChat
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// ProbeInstalledProviders filters enabled to providers actually usable:
// API-backed providers are usable whenever their key is configured;
// CLI-backed providers are usable when their command resolves on PATH.
// When nothing remains, it returns the mock provider so a run never
// aborts for lack of an installed CLI (spec.md §4.1).
func ProbeInstalledProviders(enabled []string, settings *config.Settings) []string {
	var available []string
	for _, p := range enabled {
		if stagerunner.UseAPIMode(p, settings.ProviderAPIKeys) {
			available = append(available, p)
			continue
		}
		tmpl := stagerunner.ResolveCLITemplate(p, settings.CustomCLICommand)
		if _, err := exec.LookPath(tmpl.Command); err == nil {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return []string{stagerunner.MockProvider}
	}
	return available
}

// buildSpecs creates n AgentSpecs for role, round-robining providers
// and labelling each agent "{role}-{index}" (spec.md §4.2's round-robin
// spawn policy).
func buildSpecs(role models.Role, prompt string, providers []string, n int) []stagerunner.AgentSpec {
	specs := make([]stagerunner.AgentSpec, n)
	for i := 0; i < n; i++ {
		specs[i] = stagerunner.AgentSpec{
			Label:    roleLabel(role, i),
			Provider: stagerunner.SelectProvider(providers, i),
			Prompt:   prompt,
		}
	}
	return specs
}

func roleLabel(role models.Role, i int) string {
	return string(role) + "-" + strconv.Itoa(i)
}

// extractSources returns deduplicated file/path references across
// every output, reused as the Orchestrator's notion of "extracted
// sources" for both chat mode and the refusal short-circuit check
// (spec.md §4.1, §4.4).
func extractSources(outputs []string) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, o := range outputs {
		for _, ref := range confidence.ParseFileReferences(o) {
			if !seen[ref] {
				seen[ref] = true
				sources = append(sources, ref)
			}
		}
	}
	return sources
}
