package models

// Budget states shared by the budget page and the dashboard alert.
const (
	BudgetStatusOK         = "ok"
	BudgetStatusNearLimit  = "near_limit"
	BudgetStatusOverBudget = "over_budget"
)

// BudgetStatus is a budget evaluated against the expenses of one period window.
type BudgetStatus struct {
	Budget
	Spent        float64 `json:"spent"`
	PercentSpent int     `json:"percentSpent"`
	IsAlert      bool    `json:"isAlert"`
	Status       string  `json:"status"`
	WindowStart  string  `json:"windowStart"`
	WindowEnd    string  `json:"windowEnd"`
}

type FinancialSummary struct {
	Month              string       `json:"month"`
	MonthlyIncome      float64      `json:"monthlyIncome"`
	MonthlyExpenses    float64      `json:"monthlyExpenses"`
	MonthlyBudget      float64      `json:"monthlyBudget"`
	BudgetRemaining    float64      `json:"budgetRemaining"`
	PrimarySavingsGoal *SavingsGoal `json:"primarySavingsGoal,omitempty"`
	SavingsProgress    int          `json:"savingsProgress"`
}

type MonthlyTotal struct {
	Month    string  `json:"month"`
	Expenses float64 `json:"expenses"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type CategoryCompliance struct {
	Category   string  `json:"category"`
	Budget     float64 `json:"budget"`
	Spent      float64 `json:"spent"`
	Compliance int     `json:"compliance"`
}

type AdminAnalytics struct {
	UserCount            int                  `json:"userCount"`
	CurrentMonthExpenses float64              `json:"currentMonthExpenses"`
	PercentChange        float64              `json:"percentChange"`
	MonthlyExpenses      []MonthlyTotal       `json:"monthlyExpenses"`
	Categories           []CategoryTotal      `json:"categories"`
	BudgetCompliance     []CategoryCompliance `json:"budgetCompliance"`
}
