package confidence

import (
	"math"
	"regexp"
)

// fileReferencePattern is a heuristic for file/path-shaped tokens in free
// text: something with at least one path separator or a recognizable
// source-file extension.
var fileReferencePattern = regexp.MustCompile(`(?:\./|/)?(?:[\w.-]+/)+[\w.-]+\.\w+|\b[\w-]+\.(?:go|ts|tsx|js|jsx|py|md|yaml|yml|json)\b`)

// ParseFileReferences extracts candidate file/path references from text
// (spec.md §4.4: "parse file/path references from the best output").
func ParseFileReferences(text string) []string {
	matches := fileReferencePattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// FactCheckResult is the outcome of applying the fact-check penalty.
type FactCheckResult struct {
	Adjusted              int
	Penalty               int
	UnverifiedCount       int
	TotalCount            int
	EvidenceInsufficient  bool
}

// ApplyFactCheckPenalty verifies each reference against exists (a
// predicate over paths rooted at projectPath — the concrete filesystem
// check is supplied by the caller) and reduces raw confidence
// accordingly (spec.md §4.4).
func ApplyFactCheckPenalty(raw int, references []string, exists func(ref string) bool) FactCheckResult {
	total := len(references)
	if total == 0 {
		return FactCheckResult{Adjusted: raw, TotalCount: 0}
	}

	unverified := 0
	for _, ref := range references {
		if !exists(ref) {
			unverified++
		}
	}

	u := float64(unverified) / float64(total)
	penalty := int(math.Round(u * 40))
	adjusted := raw - penalty
	if adjusted < 0 {
		adjusted = 0
	}

	res := FactCheckResult{
		Adjusted:        adjusted,
		Penalty:         penalty,
		UnverifiedCount: unverified,
		TotalCount:      total,
	}

	if unverified == total {
		res.EvidenceInsufficient = true
		if res.Adjusted > 25 {
			res.Adjusted = 25
		}
	}
	return res
}
