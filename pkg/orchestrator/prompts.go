package orchestrator

import (
	"strconv"
	"strings"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// Stage prompts are built as plain section-composed strings, grounded
// on the teacher's pkg/agent/prompt/components.go section-builder
// idiom (strings.Builder, one labelled section per concern).

func researchPrompt(task string, depth models.ResearchDepth) string {
	var sb strings.Builder
	sb.WriteString("## Task\n")
	sb.WriteString(task)
	sb.WriteString("\n\n## Research Depth\n")
	sb.WriteString(string(depth))
	sb.WriteString("\nInvestigate the codebase and summarize relevant context, prior art, and constraints.\n")
	return sb.String()
}

func planPrompt(task string, researchOutputs []string) string {
	var sb strings.Builder
	sb.WriteString("## Task\n")
	sb.WriteString(task)
	sb.WriteString("\n\n## Research Findings\n")
	writeNumberedSection(&sb, researchOutputs)
	sb.WriteString("\nPropose a concrete implementation plan.\n")
	return sb.String()
}

func codePrompt(task, plan string, mcpContext []string) string {
	var sb strings.Builder
	sb.WriteString("## Task\n")
	sb.WriteString(task)
	sb.WriteString("\n\n## Plan\n")
	sb.WriteString(plan)
	if len(mcpContext) > 0 {
		sb.WriteString("\n\n## Tool Context\n")
		writeNumberedSection(&sb, mcpContext)
	}
	sb.WriteString("\nImplement the plan in the working tree.\n")
	return sb.String()
}

func validatePrompt(task string, codeOutputs []string) string {
	var sb strings.Builder
	sb.WriteString("## Task\n")
	sb.WriteString(task)
	sb.WriteString("\n\n## Candidate Implementation\n")
	writeNumberedSection(&sb, codeOutputs)
	sb.WriteString("\nValidate correctness and flag defects.\n")
	return sb.String()
}

func securityPrompt(task string, codeOutputs []string, checksPassed bool) string {
	var sb strings.Builder
	sb.WriteString("## Task\n")
	sb.WriteString(task)
	sb.WriteString("\n\n## Candidate Implementation\n")
	writeNumberedSection(&sb, codeOutputs)
	sb.WriteString("\n## Automated Checks\n")
	if checksPassed {
		sb.WriteString("passed\n")
	} else {
		sb.WriteString("failed - treat with elevated scrutiny\n")
	}
	sb.WriteString("\nReview for security defects.\n")
	return sb.String()
}

func synthesizePrompt(task, plan string, codeOutputs, validateOutputs, securityOutputs []string) string {
	var sb strings.Builder
	sb.WriteString("## Task\n")
	sb.WriteString(task)
	sb.WriteString("\n\n## Plan\n")
	sb.WriteString(plan)
	sb.WriteString("\n\n## Implementation\n")
	writeNumberedSection(&sb, codeOutputs)
	sb.WriteString("\n## Validation\n")
	writeNumberedSection(&sb, validateOutputs)
	sb.WriteString("\n## Security Review\n")
	writeNumberedSection(&sb, securityOutputs)
	sb.WriteString("\nSynthesize a single final answer combining the above.\n")
	return sb.String()
}

func writeNumberedSection(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		sb.WriteString("(none)\n")
		return
	}
	for i, item := range items {
		sb.WriteString("### Output ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\n")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
}
