// internal/extraction/risk.go
package extraction

import (
	"strings"

	"understander/internal/models"
)

var riskVocabulary = []struct {
	level    models.RiskLevel
	keywords []string
}{
	{models.RiskConservative, []string{"conservative", "low risk", "safe", "security", "cautious", "minimal risk"}},
	{models.RiskModerate, []string{"moderate", "balanced", "middle", "average", "medium"}},
	{models.RiskAggressive, []string{"aggressive", "high risk", "risky", "growth", "ambitious"}},
}

// Risk extracts a qualitative risk tolerance label. No match leaves the
// level empty: the policy treats that as "not yet known", never as moderate.
func Risk(text string) Result {
	text = strings.ToLower(text)
	for _, entry := range riskVocabulary {
		if containsAny(text, entry.keywords) {
			return Result{Confidence: 0.8, Risk: entry.level}
		}
	}
	return Result{}
}
