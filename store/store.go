// Package store holds persistence for users, personal finance records and the
// community board. The in-memory store is the default backend; PostgreSQL is
// used when a database URL is configured.
package store

import (
	"context"
	"errors"

	"github.com/smartspend/smartspend-api/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// ListFilter narrows community tip and deal listings. Zero value lists all.
type ListFilter struct {
	ApprovedOnly bool
	UserID       string
}

type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateIncome(ctx context.Context, in *models.Income) error
	GetIncome(ctx context.Context, id string) (*models.Income, error)
	ListIncomesByUser(ctx context.Context, userID string) ([]models.Income, error)
	UpdateIncome(ctx context.Context, in *models.Income) error
	DeleteIncome(ctx context.Context, id string) error

	CreateExpense(ctx context.Context, e *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	ListExpensesByUser(ctx context.Context, userID string) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, e *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	CreateBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context) ([]models.Budget, error)
	ListBudgetsByUser(ctx context.Context, userID string) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, id string) error

	CreateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error
	GetSavingsGoal(ctx context.Context, id string) (*models.SavingsGoal, error)
	ListSavingsGoalsByUser(ctx context.Context, userID string) ([]models.SavingsGoal, error)
	UpdateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error
	DeleteSavingsGoal(ctx context.Context, id string) error

	CreateTip(ctx context.Context, t *models.CommunityTip) error
	GetTip(ctx context.Context, id string) (*models.CommunityTip, error)
	ListTips(ctx context.Context, f ListFilter) ([]models.CommunityTip, error)
	// ModifyTip runs fn on the current row and persists the result atomically.
	// An error from fn aborts without writing.
	ModifyTip(ctx context.Context, id string, fn func(*models.CommunityTip) error) (*models.CommunityTip, error)
	// RemoveTip deletes the row if check accepts it.
	RemoveTip(ctx context.Context, id string, check func(*models.CommunityTip) error) error
	// LikeTip records userID's like once; repeated likes leave the count as is.
	LikeTip(ctx context.Context, id, userID string) (*models.CommunityTip, error)

	CreateDeal(ctx context.Context, d *models.Deal) error
	GetDeal(ctx context.Context, id string) (*models.Deal, error)
	ListDeals(ctx context.Context, f ListFilter) ([]models.Deal, error)
	ModifyDeal(ctx context.Context, id string, fn func(*models.Deal) error) (*models.Deal, error)
	RemoveDeal(ctx context.Context, id string, check func(*models.Deal) error) error

	Close() error
}
