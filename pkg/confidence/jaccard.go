// Package confidence implements the Anti-Hallucination & Confidence
// Engine: token-overlap and hybrid confidence scoring, best-of-N output
// selection, fact-check penalties, stage rerun decisions, and the final
// weighted confidence across pipeline stages (spec.md §4.4).
//
// These are pure deterministic functions over sets of agent output texts;
// no teacher file implements this exact formula set (the teacher scores
// LLM output via a dedicated scoring *agent*, not an arithmetic formula),
// so this package follows spec.md §4.4 directly, using only the standard
// library — no ecosystem dependency implements this bespoke scoring
// scheme.
package confidence

import (
	"math"
	"strings"
)

// Tokenize lowercases text, splits on whitespace, and drops empty tokens
// (spec.md §4.4 step 1).
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard returns the Jaccard similarity of two token sets: |A∩B| / |A∪B|.
// Two empty sets are identical sets, so their similarity is 1.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// TokenOverlapConfidence computes the Jaccard-based confidence over a set
// of texts (spec.md §4.4): the rounded mean of all pairwise Jaccard
// similarities, or 100/0 for fewer than two texts depending on whether
// the lone text is non-empty.
func TokenOverlapConfidence(texts []string) int {
	if len(texts) < 2 {
		if len(texts) == 1 && strings.TrimSpace(texts[0]) != "" {
			return 100
		}
		return 0
	}

	sets := make([]map[string]struct{}, len(texts))
	for i, t := range texts {
		sets[i] = tokenSet(t)
	}

	var sum float64
	var pairs int
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			sum += Jaccard(sets[i], sets[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return int(math.Round(100 * sum / float64(pairs)))
}
