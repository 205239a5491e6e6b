package stagerunner

import (
	"github.com/codeready-toolchain/agentforge/pkg/confidence"
	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// ComputeGate implements spec.md §4.2's schema/confidence gate: run
// once a stage's agents have all terminated.
func ComputeGate(role models.Role, outputs []string, schemaValid []bool) GateResult {
	total := len(outputs)
	if total == 0 {
		return GateResult{Passed: false}
	}

	var totalLen, validCount int
	allValid := true
	for i, out := range outputs {
		valid := i < len(schemaValid) && schemaValid[i]
		if valid {
			validCount++
			totalLen += len(out)
		} else {
			allValid = false
		}
	}

	var lengthScore float64
	if validCount > 0 {
		lengthScore = 100 * float64(totalLen) / float64(validCount*500)
		if lengthScore > 100 {
			lengthScore = 100
		}
	}
	validityScore := 100 * float64(validCount) / float64(total)
	schemaScore := 50.0
	if allValid {
		schemaScore = 100
	}

	raw := 0.3*lengthScore + 0.4*validityScore + 0.3*schemaScore
	conf := int(raw + 0.5)

	threshold := confidence.StageThresholds[role]
	passRate := int(100*float64(validCount)/float64(total) + 0.5)

	return GateResult{
		Confidence:   conf,
		Passed:       conf >= threshold,
		PassRatePct:  passRate,
		AllSchemasOK: allValid,
		ValidCount:   validCount,
		TotalCount:   total,
	}
}
