// internal/extraction/goals.go
package extraction

import (
	"math"
	"strings"

	"understander/internal/models"
)

// goalVocabulary is ordered so that extracted goal lists are deterministic.
var goalVocabulary = []struct {
	tag      models.GoalTag
	keywords []string
}{
	{models.GoalHomePurchase, []string{"house", "home", "property", "mortgage", "buy", "real estate"}},
	{models.GoalRetirement, []string{"retire", "retirement", "pension", "401k", "ira"}},
	{models.GoalEducation, []string{"education", "college", "university", "school", "tuition", "student"}},
	{models.GoalInvestment, []string{"invest", "investment", "stock", "bond", "portfolio", "wealth"}},
	{models.GoalDebtPayment, []string{"pay off", "debt", "loan", "credit card", "student loan"}},
	{models.GoalEmergencyFund, []string{"emergency", "fund", "rainy day", "safety net"}},
	{models.GoalTravel, []string{"travel", "vacation", "trip", "holiday"}},
	{models.GoalBusiness, []string{"business", "startup", "company", "entrepreneur"}},
}

var investmentTerms = []string{"invest", "investment", "stock", "bond", "fund"}

var carLoanTerms = []string{"car loan", "auto loan", "vehicle loan"}

// Goals extracts the set of goal tags mentioned in the message. Confidence
// scales with the number of distinct goals matched: min(0.5 + 0.1*n, 0.9).
func Goals(text string) Result {
	text = strings.ToLower(text)
	var found []models.GoalTag
	for _, entry := range goalVocabulary {
		if containsAny(text, entry.keywords) {
			found = append(found, entry.tag)
		}
	}
	if len(found) == 0 {
		return Result{}
	}
	confidence := math.Min(0.5+0.1*float64(len(found)), 0.9)
	return Result{Confidence: confidence, Goals: found}
}

// MentionsInvestment reports investment vocabulary anywhere in the text.
func MentionsInvestment(text string) bool {
	return containsAny(strings.ToLower(text), investmentTerms)
}

// MentionsCarLoan reports a car-loan mention anywhere in the text.
func MentionsCarLoan(text string) bool {
	return containsAny(strings.ToLower(text), carLoanTerms)
}
