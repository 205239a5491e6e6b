package stagerunner

import (
	"strings"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// minLengthByRole are the structural-heuristic minimum output lengths
// per role (spec.md §4.2: "headings, sections, minimum length").
var minLengthByRole = map[models.Role]int{
	models.RoleResearcher:  200,
	models.RolePlanner:     150,
	models.RoleCoder:       50,
	models.RoleValidator:   80,
	models.RoleSecurity:    80,
	models.RoleSynthesizer: 100,
}

// requiresHeadingByRole marks roles whose output is expected to be
// organized into sections (markdown headings or numbered lists).
var requiresHeadingByRole = map[models.Role]bool{
	models.RoleResearcher: true,
	models.RolePlanner:    true,
}

// ValidateSchema applies the role-specific structural heuristic to an
// agent's output: non-empty, meets the minimum length for its role, and
// (for roles that need it) contains at least one heading-like line.
func ValidateSchema(role models.Role, output string) bool {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return false
	}
	if len(trimmed) < minLengthByRole[role] {
		return false
	}
	if requiresHeadingByRole[role] && !hasHeading(trimmed) {
		return false
	}
	return true
}

func hasHeading(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return true
		}
		if len(line) > 2 && line[0] >= '1' && line[0] <= '9' && strings.HasPrefix(line[1:], ". ") {
			return true
		}
	}
	return false
}
