package confidence

import "github.com/codeready-toolchain/agentforge/pkg/models"

// StageThresholds are the per-role confidence gates used by both the
// Stage Runner's schema/confidence gate and the rerun decision below
// (spec.md §4.2).
var StageThresholds = map[models.Role]int{
	models.RoleResearcher:  40,
	models.RolePlanner:     50,
	models.RoleCoder:       60,
	models.RoleValidator:   70,
	models.RoleSecurity:    80,
	models.RoleSynthesizer: 50,
}

// ShouldRerunStage implements spec.md §4.4's stage rerun decision: rerun
// iff confidence is below threshold, OR the pass rate is below 50%, OR
// not everything passed and confidence is still below 60.
func ShouldRerunStage(confidenceVal, passRatePct int, allPassed bool, threshold int) bool {
	if confidenceVal < threshold {
		return true
	}
	if passRatePct < 50 {
		return true
	}
	if !allPassed && confidenceVal < 60 {
		return true
	}
	return false
}

// stageWeights are the final weighted confidence weights (spec.md §4.4).
var stageWeights = map[string]float64{
	"research": 0.10,
	"plan":     0.15,
	"code":     0.30,
	"validate": 0.25,
	"security": 0.20,
}

// StageOrder lists the weighted stages in the order their weights apply.
var StageOrder = []string{"research", "plan", "code", "validate", "security"}

// FinalWeightedConfidence combines per-stage confidences (keyed by the
// names in StageOrder) into the pipeline's final confidence, capping the
// result at 50 if any stage scored below 30 (spec.md §4.4). Missing
// stages contribute a confidence of 0.
func FinalWeightedConfidence(byStage map[string]int) int {
	var weighted float64
	capped := false
	for _, stage := range StageOrder {
		c := byStage[stage]
		if c < 30 {
			capped = true
		}
		weighted += stageWeights[stage] * float64(c)
	}
	final := int(weighted + 0.5)
	if capped && final > 50 {
		final = 50
	}
	return final
}
