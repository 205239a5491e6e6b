package config

import "github.com/codeready-toolchain/agentforge/pkg/models"

// Defaults returns the built-in Settings baseline. A caller's partial
// Settings is overlaid onto this with mergo (see loader.go), mirroring the
// teacher's defaults.go + loader.go split.
func Defaults() *Settings {
	return &Settings{
		EnabledProviders: []string{"mock"},
		ParallelCounts: map[models.Role]int{
			models.RoleResearcher:  1,
			models.RolePlanner:     1,
			models.RoleCoder:       1,
			models.RoleValidator:   1,
			models.RoleSecurity:    1,
			models.RoleSynthesizer: 1,
		},
		ChatsPerAgent:      1,
		MaxRuntimeSeconds:  120,
		ResearchDepth:      models.DepthMedium,
		AutoRerunThreshold: 60,
		WorktreeIsolation:  false,
		ContinuousMode:     false,
		MaxConcurrentJobs:  1,
		GitHubConfig:       GitHubConfig{TokenEnv: "GITHUB_TOKEN"},
		TestingConfig:      TestingConfig{Enabled: false},
		CodeValidation: CodeValidationConfig{
			Enabled:       true,
			BlockOnErrors: false,
			MinScore:      60,
		},
		MaxRetries:   2,
		RetryDelayMs: 1000,
	}
}
