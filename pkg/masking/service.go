package masking

import (
	"log/slog"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// Service scans and masks agent output. Zero value is unusable; use
// NewService. Grounded on the teacher's pkg/masking.Service: a slice of
// compiled regex patterns plus an extensible set of structural Maskers.
type Service struct {
	patterns []*CompiledPattern
	maskers  []Masker
}

// NewService creates a Service with the built-in pattern set plus any
// additional structural maskers (may be empty).
func NewService(extra ...Masker) *Service {
	return &Service{
		patterns: builtinPatterns(),
		maskers:  extra,
	}
}

// Scan masks every detected secret in raw and returns the masked text
// alongside scan metadata for the evidence ledger (spec.md §4.2 step 1,
// §4.7 appendSecretScanMetadata).
func (s *Service) Scan(raw string) (masked string, scan models.SecretScanMetadata) {
	masked = raw

	for _, m := range s.maskers {
		if !m.AppliesTo(masked) {
			continue
		}
		next := m.Mask(masked)
		if next != masked {
			scan.FindingCount++
			scan.Findings = append(scan.Findings, m.Name())
			masked = next
		}
	}

	for _, p := range s.patterns {
		matches := p.Regex.FindAllString(masked, -1)
		if len(matches) == 0 {
			continue
		}
		masked = p.Regex.ReplaceAllString(masked, RedactedToken)
		scan.FindingCount += len(matches)
		if p.HighConfidence {
			scan.HighConfidenceCount += len(matches)
		}
		scan.Findings = append(scan.Findings, p.Name)
	}

	if scan.FindingCount > 0 {
		slog.Info("masked secrets in agent output",
			"finding_count", scan.FindingCount,
			"high_confidence_count", scan.HighConfidenceCount)
	}

	return masked, scan
}
