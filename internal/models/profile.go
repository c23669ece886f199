// internal/models/profile.go
package models

// VectorDim indexes the fixed 10-dimension persona vector.
const VectorDim = 10

// Positions within the persona vector.
const (
	VecIncome = iota
	VecExpenses
	VecSavings
	VecHomeGoal
	VecRetirementGoal
	VecEducationGoal
	VecRiskTolerance
	VecDebt
	VecCarLoan
	VecInvestmentInterest
)

// FinancialVector is the normalized persona vector consumed by downstream
// recommendation and news-personalization services. Every component is in
// [0,1].
type FinancialVector [VectorDim]float64

// FinancialInfo carries the raw extracted magnitudes and derived metrics.
type FinancialInfo struct {
	AnnualIncome    float64 `json:"annual_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	TotalSavings    float64 `json:"total_savings"`
	TotalDebt       float64 `json:"total_debt"`
	MonthlySavings  float64 `json:"monthly_savings"`
	SavingsRatio    float64 `json:"savings_ratio"`
	DebtToIncome    float64 `json:"debt_to_income"`
}

// FinancialProfile is the read-only projection exported per session.
type FinancialProfile struct {
	Vector         FinancialVector `json:"vector"`
	FinancialInfo  FinancialInfo   `json:"financial_info"`
	RiskProfile    RiskLevel       `json:"risk_profile"`
	FinancialGoals []GoalTag       `json:"financial_goals"`
}
