// internal/models/topic.go
package models

// Topic is a financial attribute category pursued by the dialogue engine.
type Topic string

const (
	TopicIncome        Topic = "income"
	TopicExpenses      Topic = "expenses"
	TopicSavings       Topic = "savings"
	TopicGoals         Topic = "goals"
	TopicRiskTolerance Topic = "risk_tolerance"
	TopicDebt          Topic = "debt"
)

// AllTopics is the fixed priority order. It defines the default questioning
// sequence and is the tie-break for next-topic selection.
var AllTopics = []Topic{
	TopicIncome,
	TopicExpenses,
	TopicSavings,
	TopicGoals,
	TopicRiskTolerance,
	TopicDebt,
}

// GoalTag is one entry of the fixed goal vocabulary.
type GoalTag string

const (
	GoalHomePurchase  GoalTag = "home_purchase"
	GoalRetirement    GoalTag = "retirement"
	GoalEducation     GoalTag = "education"
	GoalInvestment    GoalTag = "investment"
	GoalDebtPayment   GoalTag = "debt_payment"
	GoalEmergencyFund GoalTag = "emergency_fund"
	GoalTravel        GoalTag = "travel"
	GoalBusiness      GoalTag = "business"
)

// RiskLevel is a qualitative risk tolerance label.
type RiskLevel string

const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)
