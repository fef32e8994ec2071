package services

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartspend/smartspend-api/models"
)

var hundred = decimal.NewFromInt(100)

func sumAmounts(amounts []float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}

// percentOf returns round(part/whole*100) clamped to [0,100]. A zero whole
// yields 0.
func percentOf(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		return 0
	}
	pct := part.Div(whole).Mul(hundred).Round(0).IntPart()
	switch {
	case pct > 100:
		return 100
	case pct < 0:
		return 0
	}
	return int(pct)
}

// Evaluate computes spend against a budget for the given expenses. The caller
// chooses which expenses belong to the period; EvaluateAt does the selection.
func Evaluate(budget models.Budget, expenses []models.Expense) models.BudgetStatus {
	amounts := make([]float64, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	spent := sumAmounts(amounts)
	amount := decimal.NewFromFloat(budget.Amount)

	pct := percentOf(spent, amount)
	st := models.BudgetStatus{
		Budget:       budget,
		Spent:        spent.InexactFloat64(),
		PercentSpent: pct,
		IsAlert:      pct >= budget.AlertThreshold,
		Status:       models.BudgetStatusOK,
	}

	switch {
	case amount.IsPositive() && spent.GreaterThan(amount):
		st.Status = models.BudgetStatusOverBudget
	case st.IsAlert:
		st.Status = models.BudgetStatusNearLimit
	}
	return st
}

// EvaluateAt evaluates a budget over the owner's expenses in the same category
// whose date falls in the period window containing now.
func EvaluateAt(budget models.Budget, expenses []models.Expense, now time.Time) models.BudgetStatus {
	start, end, err := Window(budget.Period, budget.StartDate, now)
	if err != nil {
		// Unparseable start date: fall back to the calendar month.
		start, end = monthWindow(now)
	}

	var matched []models.Expense
	for _, e := range expenses {
		if e.UserID != budget.UserID || !strings.EqualFold(e.Category, budget.Category) {
			continue
		}
		if inWindow(e.Date, start, end) {
			matched = append(matched, e)
		}
	}

	st := Evaluate(budget, matched)
	st.WindowStart = start.Format(models.DateLayout)
	st.WindowEnd = end.AddDate(0, 0, -1).Format(models.DateLayout)
	return st
}

func EvaluateAll(budgets []models.Budget, expenses []models.Expense, now time.Time) []models.BudgetStatus {
	out := make([]models.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, EvaluateAt(b, expenses, now))
	}
	return out
}

// Alerts returns the alerting budgets, highest percentSpent first.
func Alerts(budgets []models.Budget, expenses []models.Expense, now time.Time) []models.BudgetStatus {
	alerts := make([]models.BudgetStatus, 0)
	for _, st := range EvaluateAll(budgets, expenses, now) {
		if st.IsAlert {
			alerts = append(alerts, st)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].PercentSpent > alerts[j].PercentSpent
	})
	return alerts
}
