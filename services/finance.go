package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/store"
	"github.com/smartspend/smartspend-api/utils"
)

// FinanceService owns a user's incomes, expenses and savings goals. Every
// read or write of a single record checks ownership first.
type FinanceService struct {
	store    store.Store
	notifier Notifier
	mailer   AlertMailer
	now      func() time.Time
}

// mailer may be nil when email is not configured.
func NewFinanceService(s store.Store, n Notifier, mailer AlertMailer) *FinanceService {
	return &FinanceService{store: s, notifier: orNop(n), mailer: mailer, now: time.Now}
}

func checkOwner(ownerID, userID string) error {
	if ownerID != userID {
		return ErrForbidden
	}
	return nil
}

// ============================================================================
// INCOMES
// ============================================================================

func incomeFromRequest(req models.IncomeRequest) models.Income {
	return models.Income{
		Source:      req.Source,
		Amount:      req.Amount,
		Date:        req.Date,
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
		Notes:       req.Notes,
	}
}

func (s *FinanceService) CreateIncome(ctx context.Context, userID string, req models.IncomeRequest) (*models.Income, error) {
	in := incomeFromRequest(req)
	in.UserID = userID
	if err := s.store.CreateIncome(ctx, &in); err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}
	return &in, nil
}

func (s *FinanceService) ListIncomes(ctx context.Context, userID string) ([]models.Income, error) {
	return s.store.ListIncomesByUser(ctx, userID)
}

func (s *FinanceService) UpdateIncome(ctx context.Context, userID, id string, req models.IncomeRequest) (*models.Income, error) {
	existing, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return nil, err
	}

	in := incomeFromRequest(req)
	in.ID, in.UserID = existing.ID, existing.UserID
	if err := s.store.UpdateIncome(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *FinanceService) DeleteIncome(ctx context.Context, userID, id string) error {
	existing, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return err
	}
	return s.store.DeleteIncome(ctx, id)
}

// ============================================================================
// EXPENSES
// ============================================================================

func expenseFromRequest(req models.ExpenseRequest) models.Expense {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = Categorize(req.Description)
	} else {
		category = CanonicalCategory(category)
	}
	return models.Expense{
		Category:    category,
		Subcategory: req.Subcategory,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
	}
}

func (s *FinanceService) CreateExpense(ctx context.Context, userID string, req models.ExpenseRequest) (*models.Expense, error) {
	e := expenseFromRequest(req)
	e.UserID = userID
	if err := s.store.CreateExpense(ctx, &e); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	s.checkBudgetAlerts(ctx, &e)
	return &e, nil
}

func (s *FinanceService) ListExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.store.ListExpensesByUser(ctx, userID)
}

func (s *FinanceService) UpdateExpense(ctx context.Context, userID, id string, req models.ExpenseRequest) (*models.Expense, error) {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return nil, err
	}

	e := expenseFromRequest(req)
	e.ID, e.UserID = existing.ID, existing.UserID
	if err := s.store.UpdateExpense(ctx, &e); err != nil {
		return nil, err
	}
	s.checkBudgetAlerts(ctx, &e)
	return &e, nil
}

func (s *FinanceService) DeleteExpense(ctx context.Context, userID, id string) error {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return err
	}
	return s.store.DeleteExpense(ctx, id)
}

// checkBudgetAlerts pushes a budget_alert for every budget of the expense's
// category that is alerting in the window containing the expense. Failures are
// logged only; the expense write has already succeeded.
func (s *FinanceService) checkBudgetAlerts(ctx context.Context, e *models.Expense) {
	budgets, err := s.store.ListBudgetsByUser(ctx, e.UserID)
	if err != nil {
		utils.SafeError("budget alert lookup failed for user %s: %v", e.UserID, err)
		return
	}
	var matching []models.Budget
	for _, b := range budgets {
		if strings.EqualFold(b.Category, e.Category) {
			matching = append(matching, b)
		}
	}
	if len(matching) == 0 {
		return
	}

	expenses, err := s.store.ListExpensesByUser(ctx, e.UserID)
	if err != nil {
		utils.SafeError("budget alert lookup failed for user %s: %v", e.UserID, err)
		return
	}

	now := s.now()
	for _, b := range matching {
		st := EvaluateAt(b, expenses, now)
		if !st.IsAlert || !inWindowStrings(e.Date, st.WindowStart, st.WindowEnd) {
			continue
		}
		utils.LogBudgetAlert(b.ID, e.UserID, b.Category, st.PercentSpent)
		s.notifier.NotifyUser(e.UserID, Event{Type: EventBudgetAlert, ID: b.ID, Data: st})
		s.mailAlert(ctx, e.UserID, st)
	}
}

// inWindowStrings compares YYYY-MM-DD strings against an inclusive range.
func inWindowStrings(date, first, last string) bool {
	return date >= first && date <= last
}

func (s *FinanceService) mailAlert(ctx context.Context, userID string, st models.BudgetStatus) {
	if s.mailer == nil {
		return
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		utils.SafeError("budget alert email skipped for user %s: %v", userID, err)
		return
	}
	if err := s.mailer.SendBudgetAlert(ctx, user, st); err != nil {
		utils.SafeWarn("budget alert email to %s failed: %v", user.Email, err)
	}
}

// ============================================================================
// SAVINGS GOALS
// ============================================================================

func goalFromRequest(req models.SavingsGoalRequest) models.SavingsGoal {
	return models.SavingsGoal{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		Notes:         req.Notes,
	}
}

func (s *FinanceService) CreateSavingsGoal(ctx context.Context, userID string, req models.SavingsGoalRequest) (*models.SavingsGoal, error) {
	g := goalFromRequest(req)
	g.UserID = userID
	if err := s.store.CreateSavingsGoal(ctx, &g); err != nil {
		return nil, fmt.Errorf("failed to create savings goal: %w", err)
	}
	return &g, nil
}

func (s *FinanceService) ListSavingsGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	return s.store.ListSavingsGoalsByUser(ctx, userID)
}

func (s *FinanceService) UpdateSavingsGoal(ctx context.Context, userID, id string, req models.SavingsGoalRequest) (*models.SavingsGoal, error) {
	existing, err := s.store.GetSavingsGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return nil, err
	}

	g := goalFromRequest(req)
	g.ID, g.UserID = existing.ID, existing.UserID
	if err := s.store.UpdateSavingsGoal(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *FinanceService) DeleteSavingsGoal(ctx context.Context, userID, id string) error {
	existing, err := s.store.GetSavingsGoal(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return err
	}
	return s.store.DeleteSavingsGoal(ctx, id)
}
