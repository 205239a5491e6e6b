package orchestrator

import "strings"

// planSection is one `## <title>` block of a planner's output, the unit
// the Ticket Manager decomposes a plan into (spec.md §4.1 "decompose
// into tickets via the Ticket Manager").
type planSection struct {
	Title string
	Body  string
}

// splitPlanSections parses plan's top-level `##` markdown headers into
// sections, matching the `## <label>` convention prompts.go itself
// writes. A plan with no headers becomes a single section so project
// mode still produces exactly one coder ticket for unstructured plans.
func splitPlanSections(plan string) []planSection {
	lines := strings.Split(plan, "\n")
	var sections []planSection
	var title string
	var body strings.Builder
	has := false

	flush := func() {
		if has {
			sections = append(sections, planSection{Title: title, Body: strings.TrimSpace(body.String())})
		}
		body.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			flush()
			title = strings.TrimSpace(strings.TrimPrefix(trimmed, "##"))
			has = true
			continue
		}
		if has {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	if len(sections) == 0 {
		return []planSection{{Title: "implement plan", Body: plan}}
	}
	return sections
}
