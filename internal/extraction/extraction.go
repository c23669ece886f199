// internal/extraction/extraction.go

// Package extraction holds the per-topic rules that map raw chat text to
// confidence-scored values. Every rule is stateless and never fails: text
// with no recognizable pattern yields confidence 0 and a zero value.
package extraction

import (
	"strings"

	"understander/internal/models"
)

// Result is the outcome of running one topic rule against one message.
// Amount is set for the money topics, Goals for the goals topic and Risk for
// risk tolerance; a zero Confidence means nothing was recognized.
type Result struct {
	Confidence float64
	Amount     float64
	Goals      []models.GoalTag
	Risk       models.RiskLevel
}

// Extract dispatches to the rule for the given topic.
func Extract(topic models.Topic, text string) Result {
	switch topic {
	case models.TopicIncome:
		return Income(text)
	case models.TopicExpenses:
		return Expenses(text)
	case models.TopicSavings:
		return Savings(text)
	case models.TopicGoals:
		return Goals(text)
	case models.TopicRiskTolerance:
		return Risk(text)
	case models.TopicDebt:
		return Debt(text)
	}
	return Result{}
}

// ExtractAll runs every topic rule against the message and returns the
// results with positive confidence, keyed by topic.
func ExtractAll(text string) map[models.Topic]Result {
	out := make(map[models.Topic]Result, len(models.AllTopics))
	for _, topic := range models.AllTopics {
		if res := Extract(topic, text); res.Confidence > 0 {
			out[topic] = res
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
