package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/store"
)

// analyticsMonths is the length of the admin expense trend.
const analyticsMonths = 6

type SummaryService struct {
	store store.Store
	now   func() time.Time
}

func NewSummaryService(s store.Store) *SummaryService {
	return &SummaryService{store: s, now: time.Now}
}

// Summary is the dashboard view of the current calendar month.
func (s *SummaryService) Summary(ctx context.Context, userID string) (*models.FinancialSummary, error) {
	incomes, err := s.store.ListIncomesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.store.ListSavingsGoalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	start, end := monthWindow(now)

	income := decimal.Zero
	for _, in := range incomes {
		if inWindow(in.Date, start, end) {
			income = income.Add(decimal.NewFromFloat(in.Amount))
		}
	}
	spent := decimal.Zero
	for _, e := range expenses {
		if inWindow(e.Date, start, end) {
			spent = spent.Add(decimal.NewFromFloat(e.Amount))
		}
	}
	budget := decimal.Zero
	for _, b := range budgets {
		if b.Period == models.PeriodMonthly {
			budget = budget.Add(decimal.NewFromFloat(b.Amount))
		}
	}

	remaining := budget.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	summary := &models.FinancialSummary{
		Month:           now.Format("2006-01"),
		MonthlyIncome:   income.InexactFloat64(),
		MonthlyExpenses: spent.InexactFloat64(),
		MonthlyBudget:   budget.InexactFloat64(),
		BudgetRemaining: remaining.InexactFloat64(),
	}

	if len(goals) > 0 {
		primary := goals[0]
		summary.PrimarySavingsGoal = &primary
		target := decimal.NewFromFloat(primary.TargetAmount)
		if target.IsPositive() {
			summary.SavingsProgress = int(decimal.NewFromFloat(primary.CurrentAmount).
				Div(target).Mul(hundred).Round(0).IntPart())
		}
	}
	return summary, nil
}

// AdminAnalytics aggregates spending across every user.
func (s *SummaryService) AdminAnalytics(ctx context.Context) (*models.AdminAnalytics, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	curStart, curEnd := monthWindow(now)

	// Month buckets, oldest first, keyed by YYYY-MM.
	monthly := make([]decimal.Decimal, analyticsMonths)
	firstMonth := curStart.AddDate(0, -(analyticsMonths - 1), 0)
	monthIndex := make(map[string]int, analyticsMonths)
	for i := 0; i < analyticsMonths; i++ {
		monthIndex[firstMonth.AddDate(0, i, 0).Format("2006-01")] = i
	}

	categoryTotals := map[string]decimal.Decimal{}
	currentByCategory := map[string]decimal.Decimal{}
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		categoryTotals[e.Category] = categoryTotals[e.Category].Add(amount)
		if len(e.Date) >= 7 {
			if i, ok := monthIndex[e.Date[:7]]; ok {
				monthly[i] = monthly[i].Add(amount)
			}
		}
		if inWindow(e.Date, curStart, curEnd) {
			key := strings.ToLower(e.Category)
			currentByCategory[key] = currentByCategory[key].Add(amount)
		}
	}

	out := &models.AdminAnalytics{
		UserCount:        len(users),
		MonthlyExpenses:  make([]models.MonthlyTotal, analyticsMonths),
		Categories:       make([]models.CategoryTotal, 0, len(categoryTotals)),
		BudgetCompliance: make([]models.CategoryCompliance, 0),
	}
	for i := range monthly {
		out.MonthlyExpenses[i] = models.MonthlyTotal{
			Month:    firstMonth.AddDate(0, i, 0).Format("2006-01"),
			Expenses: monthly[i].InexactFloat64(),
		}
	}

	current := monthly[analyticsMonths-1]
	previous := monthly[analyticsMonths-2]
	out.CurrentMonthExpenses = current.InexactFloat64()
	if previous.IsPositive() {
		out.PercentChange = current.Sub(previous).Div(previous).Mul(hundred).Round(1).InexactFloat64()
	}

	for category, total := range categoryTotals {
		out.Categories = append(out.Categories, models.CategoryTotal{Category: category, Amount: total.InexactFloat64()})
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		if out.Categories[i].Amount != out.Categories[j].Amount {
			return out.Categories[i].Amount > out.Categories[j].Amount
		}
		return out.Categories[i].Category < out.Categories[j].Category
	})

	// Compliance compares this month's spend with the monthly budgets set for
	// the category.
	budgetByCategory := map[string]decimal.Decimal{}
	names := map[string]string{}
	for _, b := range budgets {
		if b.Period != models.PeriodMonthly {
			continue
		}
		key := strings.ToLower(b.Category)
		budgetByCategory[key] = budgetByCategory[key].Add(decimal.NewFromFloat(b.Amount))
		if _, ok := names[key]; !ok {
			names[key] = b.Category
		}
	}
	for key, total := range budgetByCategory {
		spent := currentByCategory[key]
		compliance := 0
		if total.IsPositive() {
			compliance = 100 - percentOf(spent, total)
		}
		out.BudgetCompliance = append(out.BudgetCompliance, models.CategoryCompliance{
			Category:   names[key],
			Budget:     total.InexactFloat64(),
			Spent:      spent.InexactFloat64(),
			Compliance: compliance,
		})
	}
	sort.Slice(out.BudgetCompliance, func(i, j int) bool {
		return out.BudgetCompliance[i].Category < out.BudgetCompliance[j].Category
	})
	return out, nil
}
