// Package config defines the orchestration engine's Settings type, its
// YAML file format, defaults merging, and validation (spec.md §3).
package config

import "github.com/codeready-toolchain/agentforge/pkg/models"

// CLITemplate is an explicit, single-substitution command template: the
// literal token "{PROMPT}" is replaced with the path to a temp file
// holding the agent's prompt (spec.md §6, §9 — "no general string
// interpolation").
type CLITemplate struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// Render returns command and args with every "{PROMPT}" token replaced by
// promptFilePath.
func (t CLITemplate) Render(promptFilePath string) (command string, args []string) {
	args = make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = substitutePrompt(a, promptFilePath)
	}
	return substitutePrompt(t.Command, promptFilePath), args
}

func substitutePrompt(s, promptFilePath string) string {
	const token = "{PROMPT}"
	out := make([]byte, 0, len(s))
	for {
		idx := indexOf(s, token)
		if idx < 0 {
			out = append(out, s...)
			break
		}
		out = append(out, s[:idx]...)
		out = append(out, promptFilePath...)
		s = s[idx+len(token):]
	}
	return string(out)
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// TransportType is the closed set of MCP server transports this engine
// configures. Transport wiring itself is an out-of-scope external
// collaborator (spec.md §1); only the declarative config is owned here.
type TransportType string

const (
	TransportStdio TransportType = "stdio"
	TransportHTTP  TransportType = "http"
	TransportSSE   TransportType = "sse"
)

// MCPServerConfig declares one MCP server available for tool-call
// post-processing (spec.md §3, §4.2).
type MCPServerConfig struct {
	ID          string            `yaml:"id"`
	Transport   TransportType     `yaml:"transport"`
	Command     string            `yaml:"command,omitempty"`
	Args        []string          `yaml:"args,omitempty"`
	URL         string            `yaml:"url,omitempty"`
	BearerToken string            `yaml:"bearer_token,omitempty"`
	TimeoutSecs int               `yaml:"timeout_seconds,omitempty"`
}

// GitHubConfig holds GitHub integration settings (credentials are an
// out-of-scope external collaborator; only the token env var name is
// configured here).
type GitHubConfig struct {
	Enabled  bool   `yaml:"enabled"`
	TokenEnv string `yaml:"token_env,omitempty"`
}

// TestingConfig configures how the Security stage's automated checks run.
type TestingConfig struct {
	Enabled       bool        `yaml:"enabled"`
	CustomCommand CLITemplate `yaml:"custom_command,omitempty"`
}

// CodeValidationConfig configures the Stage Runner's schema/confidence
// gate enforcement for the code stage.
type CodeValidationConfig struct {
	Enabled       bool `yaml:"enabled"`
	BlockOnErrors bool `yaml:"block_on_errors"`
	MinScore      int  `yaml:"min_score"`
}

// Settings is the full orchestration engine configuration (spec.md §3).
// It is loaded once before a run and treated as immutable during that run.
type Settings struct {
	EnabledProviders    []string             `yaml:"enabled_providers"`
	ParallelCounts      map[models.Role]int  `yaml:"parallel_counts"`
	ChatsPerAgent        int                  `yaml:"chats_per_agent"`
	MaxRuntimeSeconds    int                  `yaml:"max_runtime_seconds"`
	ResearchDepth        models.ResearchDepth `yaml:"research_depth"`
	AutoRerunThreshold   int                  `yaml:"auto_rerun_threshold"`
	WorktreeIsolation    bool                 `yaml:"worktree_isolation"`
	ContinuousMode       bool                 `yaml:"continuous_mode"`
	MaxConcurrentJobs    int                  `yaml:"max_concurrent_jobs"`
	CustomCLICommand     *CLITemplate         `yaml:"custom_cli_command,omitempty"`
	ProviderAPIKeys      map[string]string    `yaml:"provider_api_keys,omitempty"`
	GitHubConfig         GitHubConfig         `yaml:"github"`
	TestingConfig        TestingConfig        `yaml:"testing"`
	MCPServers           []MCPServerConfig    `yaml:"mcp_servers,omitempty"`
	CodeValidation       CodeValidationConfig `yaml:"code_validation"`

	// MaxRetries / RetryDelayMs configure the Stage Runner's retry policy
	// (spec.md §4.2). Not part of the original table but required by the
	// spec text; grouped here rather than invented as a separate type.
	MaxRetries   int `yaml:"max_retries"`
	RetryDelayMs int `yaml:"retry_delay_ms"`

	// EmbeddingAPIKey, when non-empty, enables hybrid (Jaccard + semantic)
	// confidence scoring (spec.md §4.4).
	EmbeddingAPIKey string `yaml:"embedding_api_key,omitempty"`
	SemanticValidationEnabled bool `yaml:"semantic_validation_enabled"`
}
