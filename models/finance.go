package models

// DateLayout is the wire and storage format of every calendar date.
const DateLayout = "2006-01-02"

type Income struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Source      string  `json:"source"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	IsRecurring bool    `json:"isRecurring"`
	Frequency   string  `json:"frequency,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type IncomeRequest struct {
	Source      string  `json:"source" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	IsRecurring bool    `json:"isRecurring"`
	Frequency   string  `json:"frequency" binding:"omitempty,oneof=Weekly Bi-weekly Monthly Quarterly Annually"`
	Notes       string  `json:"notes"`
}

type Expense struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	IsRecurring bool    `json:"isRecurring"`
}

// ExpenseRequest leaves Category optional: an empty category is derived from
// the description.
type ExpenseRequest struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	Description string  `json:"description" binding:"required"`
	IsRecurring bool    `json:"isRecurring"`
}

type CategorizeRequest struct {
	Label string `json:"label" binding:"required"`
}

// Budget periods.
const (
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodAnnually  = "annually"
)

const DefaultAlertThreshold = 80

type Budget struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	Period         string  `json:"period"`
	StartDate      string  `json:"startDate"`
	AlertThreshold int     `json:"alertThreshold"`
}

// BudgetRequest uses a pointer for AlertThreshold so an omitted value can take
// the default instead of failing the range check.
type BudgetRequest struct {
	Category       string  `json:"category" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Period         string  `json:"period" binding:"required,oneof=weekly monthly quarterly annually"`
	StartDate      string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	AlertThreshold *int    `json:"alertThreshold" binding:"omitempty,min=1,max=100"`
}

type SavingsGoal struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

type SavingsGoalRequest struct {
	Name          string  `json:"name" binding:"required"`
	TargetAmount  float64 `json:"targetAmount" binding:"required,gt=0"`
	CurrentAmount float64 `json:"currentAmount" binding:"gte=0"`
	Deadline      string  `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Notes         string  `json:"notes"`
}
