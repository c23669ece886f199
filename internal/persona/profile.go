// internal/persona/profile.go
package persona

import (
	"understander/internal/extraction"
	"understander/internal/models"
)

// BuildProfile combines the persona vector with re-derived raw magnitudes
// and qualitative labels. Last confident mention wins per topic; risk
// defaults to moderate when never confidently stated.
func BuildProfile(messages []models.Message) models.FinancialProfile {
	var income, expenses, savings, debt float64
	risk := models.RiskModerate
	goalSeen := make(map[models.GoalTag]bool)

	for _, m := range messages {
		if m.Sender != models.SenderUser {
			continue
		}

		if r := extraction.Income(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			income = r.Amount
		}
		if r := extraction.Expenses(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			expenses = r.Amount
		}
		if r := extraction.Savings(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			savings = r.Amount
		}
		if r := extraction.Debt(m.Text); r.Confidence > confidenceGate && r.Amount > 0 {
			debt = r.Amount
		}
		if r := extraction.Goals(m.Text); r.Confidence > confidenceGate {
			for _, g := range r.Goals {
				goalSeen[g] = true
			}
		}
		if r := extraction.Risk(m.Text); r.Confidence > confidenceGate && r.Risk != "" {
			risk = r.Risk
		}
	}

	var savingsRatio, debtToIncome, monthlySavings float64
	if income > 0 {
		savingsRatio = savings / income
		debtToIncome = debt / income
	}
	if income > 0 && expenses > 0 {
		if ms := income/12 - expenses; ms > 0 {
			monthlySavings = ms
		}
	}

	// De-duplicated union in vocabulary order, never null in JSON.
	goals := make([]models.GoalTag, 0, len(goalSeen))
	for _, g := range []models.GoalTag{
		models.GoalHomePurchase, models.GoalRetirement, models.GoalEducation,
		models.GoalInvestment, models.GoalDebtPayment, models.GoalEmergencyFund,
		models.GoalTravel, models.GoalBusiness,
	} {
		if goalSeen[g] {
			goals = append(goals, g)
		}
	}

	return models.FinancialProfile{
		Vector: BuildVector(messages),
		FinancialInfo: models.FinancialInfo{
			AnnualIncome:    income,
			MonthlyExpenses: expenses,
			TotalSavings:    savings,
			TotalDebt:       debt,
			MonthlySavings:  monthlySavings,
			SavingsRatio:    savingsRatio,
			DebtToIncome:    debtToIncome,
		},
		RiskProfile:    risk,
		FinancialGoals: goals,
	}
}
