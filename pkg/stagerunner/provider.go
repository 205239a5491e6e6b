package stagerunner

import "github.com/codeready-toolchain/agentforge/pkg/config"

// MockProvider is the fallback registered by the Orchestrator when no
// enabled provider's CLI is installed, so a pipeline never aborts for
// lack of an installed CLI (spec.md §4.1).
const MockProvider = "mock"

const mockEchoScript = `echo 'mock agent output: no installed CLI, returning a placeholder response'`

// apiBackends is the closed set of providers with a direct HTTPS API
// mode (spec.md §6); every other enabled provider is driven via a CLI
// spawn built from a template.
var apiBackends = map[string]bool{
	"chatgpt":    true,
	"gemini-api": true,
	"claude":     true,
}

// SelectProvider returns providers[i mod len(providers)] (spec.md
// §4.2's round-robin spawn policy). Panics only on an empty slice,
// which the caller must never pass (a stage with zero providers never
// reaches spawn).
func SelectProvider(providers []string, i int) string {
	return providers[i%len(providers)]
}

// UseAPIMode reports whether provider should be driven over its HTTPS
// API rather than a CLI spawn: it must be one of the built-in API
// backends AND have a configured API key.
func UseAPIMode(provider string, apiKeys map[string]string) bool {
	if !apiBackends[provider] {
		return false
	}
	key, ok := apiKeys[provider]
	return ok && key != ""
}

// defaultCLITemplate returns the built-in shell template for provider
// when Settings.CustomCLICommand is not set. Providers not in this
// table fall back to invoking the provider name directly as a command
// taking the prompt file path as its sole argument.
func defaultCLITemplate(provider string) config.CLITemplate {
	switch provider {
	case "claude":
		return config.CLITemplate{Command: "claude", Args: []string{"--print", "--file", "{PROMPT}"}}
	case "gemini":
		return config.CLITemplate{Command: "gemini", Args: []string{"--prompt-file", "{PROMPT}"}}
	case "codex":
		return config.CLITemplate{Command: "codex", Args: []string{"exec", "--file", "{PROMPT}"}}
	case MockProvider:
		return config.CLITemplate{Command: "sh", Args: []string{"-c", mockEchoScript}}
	default:
		return config.CLITemplate{Command: provider, Args: []string{"{PROMPT}"}}
	}
}

// ResolveCLITemplate returns custom if set, else the built-in default
// for provider.
func ResolveCLITemplate(provider string, custom *config.CLITemplate) config.CLITemplate {
	if custom != nil {
		return *custom
	}
	return defaultCLITemplate(provider)
}
