package config

import (
	"fmt"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// Validator validates a Settings value comprehensively with clear error
// messages, matching the teacher's pkg/config/validator.go house style:
// a fail-fast ValidateAll composed of small per-concern checks.
type Validator struct {
	s *Settings
}

// NewValidator creates a Validator for s.
func NewValidator(s *Settings) *Validator {
	return &Validator{s: s}
}

// ValidateAll performs comprehensive validation, stopping at the first
// error (spec.md §3: "all numeric ranges enforced").
func (v *Validator) ValidateAll() error {
	if err := v.validateProviders(); err != nil {
		return fmt.Errorf("provider validation failed: %w", err)
	}
	if err := v.validateParallelCounts(); err != nil {
		return fmt.Errorf("parallel_counts validation failed: %w", err)
	}
	if err := v.validateRanges(); err != nil {
		return fmt.Errorf("range validation failed: %w", err)
	}
	if err := v.validateEnums(); err != nil {
		return fmt.Errorf("enum validation failed: %w", err)
	}
	if err := v.validateMCPServers(); err != nil {
		return fmt.Errorf("mcp_servers validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateProviders() error {
	if len(v.s.EnabledProviders) == 0 {
		return fmt.Errorf("enabled_providers must not be empty")
	}
	return nil
}

func (v *Validator) validateParallelCounts() error {
	for role, n := range v.s.ParallelCounts {
		if n < 0 || n > 6 {
			return fmt.Errorf("parallel_counts[%s] must be between 0 and 6, got %d", role, n)
		}
	}
	return nil
}

func (v *Validator) validateRanges() error {
	s := v.s
	if s.ChatsPerAgent < 1 || s.ChatsPerAgent > 20 {
		return fmt.Errorf("chats_per_agent must be between 1 and 20, got %d", s.ChatsPerAgent)
	}
	if s.MaxRuntimeSeconds < 10 || s.MaxRuntimeSeconds > 600 {
		return fmt.Errorf("max_runtime_seconds must be between 10 and 600, got %d", s.MaxRuntimeSeconds)
	}
	if s.AutoRerunThreshold < 0 || s.AutoRerunThreshold > 100 {
		return fmt.Errorf("auto_rerun_threshold must be between 0 and 100, got %d", s.AutoRerunThreshold)
	}
	if s.MaxConcurrentJobs < 1 || s.MaxConcurrentJobs > 5 {
		return fmt.Errorf("max_concurrent_jobs must be between 1 and 5, got %d", s.MaxConcurrentJobs)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", s.MaxRetries)
	}
	if s.RetryDelayMs < 0 {
		return fmt.Errorf("retry_delay_ms must be non-negative, got %d", s.RetryDelayMs)
	}
	if s.CodeValidation.MinScore < 0 || s.CodeValidation.MinScore > 100 {
		return fmt.Errorf("code_validation.min_score must be between 0 and 100, got %d", s.CodeValidation.MinScore)
	}
	return nil
}

func (v *Validator) validateEnums() error {
	switch v.s.ResearchDepth {
	case models.DepthShallow, models.DepthMedium, models.DepthDeep:
	default:
		return fmt.Errorf("research_depth must be one of shallow|medium|deep, got %q", v.s.ResearchDepth)
	}
	return nil
}

func (v *Validator) validateMCPServers() error {
	seen := make(map[string]bool, len(v.s.MCPServers))
	for _, srv := range v.s.MCPServers {
		if srv.ID == "" {
			return fmt.Errorf("mcp server missing id")
		}
		if seen[srv.ID] {
			return fmt.Errorf("duplicate mcp server id %q", srv.ID)
		}
		seen[srv.ID] = true
		switch srv.Transport {
		case TransportStdio, TransportHTTP, TransportSSE:
		default:
			return fmt.Errorf("mcp server %q: unknown transport %q", srv.ID, srv.Transport)
		}
	}
	return nil
}
