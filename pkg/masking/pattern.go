package masking

import "regexp"

// RedactedToken replaces every detected secret occurrence (spec.md §4.2:
// "replace detected secrets with [REDACTED] tokens").
const RedactedToken = "[REDACTED]"

// CompiledPattern holds a pre-compiled regex pattern with metadata,
// mirroring the teacher's pkg/masking.CompiledPattern.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Description string
	// HighConfidence patterns (exact key-id formats) are counted
	// separately from broad heuristics in SecretScanMetadata.
	HighConfidence bool
}

// builtinPatterns is the default set of secret-shaped patterns. Real
// rule bodies (exact vendor formats, entropy checks) are the out-of-scope
// "secret-scanner rule bodies" collaborator (spec.md §1); these are
// representative stand-ins sufficient to exercise the masking pipeline.
func builtinPatterns() []*CompiledPattern {
	raw := []struct {
		name, pattern, desc string
		highConfidence      bool
	}{
		{"openai_api_key", `sk-[A-Za-z0-9]{20,}`, "OpenAI-style API key", true},
		{"anthropic_api_key", `sk-ant-[A-Za-z0-9_-]{20,}`, "Anthropic-style API key", true},
		{"aws_access_key", `AKIA[0-9A-Z]{16}`, "AWS access key ID", true},
		{"github_token", `gh[pousr]_[A-Za-z0-9]{20,}`, "GitHub personal access token", true},
		{"generic_bearer", `(?i)bearer\s+[A-Za-z0-9._-]{20,}`, "Bearer token in an Authorization header", false},
		{"private_key_block", `-----BEGIN [A-Z ]*PRIVATE KEY-----`, "PEM private key block", true},
		{"generic_secret_assignment", `(?i)(api[_-]?key|secret|token|password)\s*[:=]\s*["']?[A-Za-z0-9_\-/+=]{12,}["']?`, "key=value secret assignment", false},
	}

	out := make([]*CompiledPattern, 0, len(raw))
	for _, r := range raw {
		out = append(out, &CompiledPattern{
			Name:           r.name,
			Regex:          regexp.MustCompile(r.pattern),
			Description:    r.desc,
			HighConfidence: r.highConfidence,
		})
	}
	return out
}
