// internal/persona/vector.go

// Package persona reduces a conversation's full message log into the
// 10-dimension persona vector and the financial profile consumed by the
// recommendation services. Both are recomputed from scratch on every request
// (never maintained incrementally) so partial and full extraction can never
// drift apart.
package persona

import (
	"math"

	"understander/internal/extraction"
	"understander/internal/models"
)

// Fixed normalization divisors. Values at or above the divisor clamp to 1.
const (
	maxAnnualIncome   = 500_000.0
	maxMonthlyExpense = 20_000.0
	maxSavings        = 1_000_000.0
	maxDebt           = 100_000.0

	// carLoanFlag marks a car-loan mention without a parsed amount.
	carLoanFlag = 0.5

	// confidenceGate is the per-message acceptance bar for extracted values.
	confidenceGate = 0.7
)

// BuildVector is a pure function of the message log: it rescans every user
// message through the extraction rules, later confident mentions overwrite
// earlier ones, and each component is clamped to [0,1].
func BuildVector(messages []models.Message) models.FinancialVector {
	var v models.FinancialVector

	for _, m := range messages {
		if m.Sender != models.SenderUser {
			continue
		}

		if r := extraction.Income(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			v[models.VecIncome] = math.Min(r.Amount/maxAnnualIncome, 1.0)
		}
		if r := extraction.Expenses(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			v[models.VecExpenses] = math.Min(r.Amount/maxMonthlyExpense, 1.0)
		}
		if r := extraction.Savings(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			v[models.VecSavings] = math.Min(r.Amount/maxSavings, 1.0)
		}
		if r := extraction.Debt(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			v[models.VecDebt] = math.Min(r.Amount/maxDebt, 1.0)
		}

		// Goal dimensions are presence flags: a single clear mention counts,
		// regardless of how many other goals share the message.
		if r := extraction.Goals(m.Text); r.Confidence > 0 {
			for _, g := range r.Goals {
				switch g {
				case models.GoalHomePurchase:
					v[models.VecHomeGoal] = 1.0
				case models.GoalRetirement:
					v[models.VecRetirementGoal] = 1.0
				case models.GoalEducation:
					v[models.VecEducationGoal] = 1.0
				}
			}
		}

		if r := extraction.Risk(m.Text); r.Confidence > confidenceGate {
			switch r.Risk {
			case models.RiskConservative:
				v[models.VecRiskTolerance] = 0.25
			case models.RiskModerate:
				v[models.VecRiskTolerance] = 0.5
			case models.RiskAggressive:
				v[models.VecRiskTolerance] = 0.75
			}
		}

		if extraction.MentionsCarLoan(m.Text) {
			v[models.VecCarLoan] = carLoanFlag
		}
		if extraction.MentionsInvestment(m.Text) {
			v[models.VecInvestmentInterest] = 1.0
		}
	}

	return v
}
