package services

import (
	"context"
	"fmt"
	"time"

	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/store"
)

type BudgetService struct {
	store store.Store
	now   func() time.Time
}

func NewBudgetService(s store.Store) *BudgetService {
	return &BudgetService{store: s, now: time.Now}
}

func budgetFromRequest(req models.BudgetRequest) models.Budget {
	threshold := models.DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}
	return models.Budget{
		Category:       CanonicalCategory(req.Category),
		Amount:         req.Amount,
		Period:         req.Period,
		StartDate:      req.StartDate,
		AlertThreshold: threshold,
	}
}

// Create stores a new budget. An omitted alert threshold defaults to 80%.
func (s *BudgetService) Create(ctx context.Context, userID string, req models.BudgetRequest) (*models.Budget, error) {
	b := budgetFromRequest(req)
	b.UserID = userID
	if err := s.store.CreateBudget(ctx, &b); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return &b, nil
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.store.ListBudgetsByUser(ctx, userID)
}

func (s *BudgetService) Update(ctx context.Context, userID, id string, req models.BudgetRequest) (*models.Budget, error) {
	existing, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return nil, err
	}

	b := budgetFromRequest(req)
	b.ID, b.UserID = existing.ID, existing.UserID
	if err := s.store.UpdateBudget(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(existing.UserID, userID); err != nil {
		return err
	}
	return s.store.DeleteBudget(ctx, id)
}

func (s *BudgetService) load(ctx context.Context, userID string) ([]models.Budget, []models.Expense, error) {
	budgets, err := s.store.ListBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return budgets, expenses, nil
}

// Statuses evaluates every budget of the user for its current window.
func (s *BudgetService) Statuses(ctx context.Context, userID string) ([]models.BudgetStatus, error) {
	budgets, expenses, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return EvaluateAll(budgets, expenses, s.now()), nil
}

// Alerts returns the user's alerting budgets, highest spend first.
func (s *BudgetService) Alerts(ctx context.Context, userID string) ([]models.BudgetStatus, error) {
	budgets, expenses, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Alerts(budgets, expenses, s.now()), nil
}
