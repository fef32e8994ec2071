package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/utils"
)

// Postgres is the lib/pq backed Store. The schema comes from
// config.RunMigrations.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Close() error { return s.db.Close() }

const (
	uniqueViolation = "23505"
	// Raised for IDs that are not valid UUIDs.
	invalidTextRepresentation = "22P02"
)

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return ErrConflict
		case invalidTextRepresentation:
			return ErrNotFound
		}
	}
	return err
}

// execOne runs a write that must touch exactly one row.
func execOne(ctx context.Context, db interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// ============================================================================
// USERS
// ============================================================================

const userColumns = `id, username, email, full_name, is_admin, password_hash, totp_secret, totp_enabled`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.IsAdmin, &u.PasswordHash, &u.TOTPSecret, &u.TOTPEnabled); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = newID(u.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Username, u.Email, u.FullName, u.IsAdmin, u.PasswordHash, u.TOTPSecret, u.TOTPEnabled)
	return mapErr(err)
}

func (s *Postgres) GetUser(ctx context.Context, id string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username))
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (s *Postgres) UpdateUser(ctx context.Context, u *models.User) error {
	return execOne(ctx, s.db, `
		UPDATE users
		SET username = $2, email = $3, full_name = $4, is_admin = $5,
		    password_hash = $6, totp_secret = $7, totp_enabled = $8, updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Username, u.Email, u.FullName, u.IsAdmin, u.PasswordHash, u.TOTPSecret, u.TOTPEnabled)
}

func (s *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ============================================================================
// INCOMES
// ============================================================================

const incomeColumns = `id, user_id, source, amount, date, is_recurring, frequency, notes`

func scanIncome(row scanner) (*models.Income, error) {
	var in models.Income
	if err := row.Scan(&in.ID, &in.UserID, &in.Source, &in.Amount, &in.Date, &in.IsRecurring, &in.Frequency, &in.Notes); err != nil {
		return nil, mapErr(err)
	}
	return &in, nil
}

func (s *Postgres) CreateIncome(ctx context.Context, in *models.Income) error {
	in.ID = newID(in.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incomes (`+incomeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, in.ID, in.UserID, in.Source, in.Amount, in.Date, in.IsRecurring, in.Frequency, in.Notes)
	return mapErr(err)
}

func (s *Postgres) GetIncome(ctx context.Context, id string) (*models.Income, error) {
	return scanIncome(s.db.QueryRowContext(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE id = $1`, id))
}

func (s *Postgres) ListIncomesByUser(ctx context.Context, userID string) ([]models.Income, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, *in)
	}
	return incomes, rows.Err()
}

func (s *Postgres) UpdateIncome(ctx context.Context, in *models.Income) error {
	return execOne(ctx, s.db, `
		UPDATE incomes
		SET source = $2, amount = $3, date = $4, is_recurring = $5, frequency = $6, notes = $7
		WHERE id = $1
	`, in.ID, in.Source, in.Amount, in.Date, in.IsRecurring, in.Frequency, in.Notes)
}

func (s *Postgres) DeleteIncome(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM incomes WHERE id = $1`, id)
}

// ============================================================================
// EXPENSES
// ============================================================================

const expenseColumns = `id, user_id, category, subcategory, amount, date, description, is_recurring`

func scanExpense(row scanner) (*models.Expense, error) {
	var e models.Expense
	if err := row.Scan(&e.ID, &e.UserID, &e.Category, &e.Subcategory, &e.Amount, &e.Date, &e.Description, &e.IsRecurring); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (s *Postgres) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (s *Postgres) CreateExpense(ctx context.Context, e *models.Expense) error {
	e.ID = newID(e.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.UserID, e.Category, e.Subcategory, e.Amount, e.Date, e.Description, e.IsRecurring)
	return mapErr(err)
}

func (s *Postgres) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return scanExpense(s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
}

func (s *Postgres) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY created_at`)
}

func (s *Postgres) ListExpensesByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (s *Postgres) UpdateExpense(ctx context.Context, e *models.Expense) error {
	return execOne(ctx, s.db, `
		UPDATE expenses
		SET category = $2, subcategory = $3, amount = $4, date = $5, description = $6, is_recurring = $7
		WHERE id = $1
	`, e.ID, e.Category, e.Subcategory, e.Amount, e.Date, e.Description, e.IsRecurring)
}

func (s *Postgres) DeleteExpense(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM expenses WHERE id = $1`, id)
}

// ============================================================================
// BUDGETS
// ============================================================================

const budgetColumns = `id, user_id, category, amount, period, start_date, alert_threshold`

func scanBudget(row scanner) (*models.Budget, error) {
	var b models.Budget
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period, &b.StartDate, &b.AlertThreshold); err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (s *Postgres) queryBudgets(ctx context.Context, query string, args ...any) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *Postgres) CreateBudget(ctx context.Context, b *models.Budget) error {
	b.ID = newID(b.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.UserID, b.Category, b.Amount, b.Period, b.StartDate, b.AlertThreshold)
	return mapErr(err)
}

func (s *Postgres) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	return scanBudget(s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id))
}

func (s *Postgres) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	return s.queryBudgets(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY created_at`)
}

func (s *Postgres) ListBudgetsByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.queryBudgets(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (s *Postgres) UpdateBudget(ctx context.Context, b *models.Budget) error {
	return execOne(ctx, s.db, `
		UPDATE budgets
		SET category = $2, amount = $3, period = $4, start_date = $5, alert_threshold = $6
		WHERE id = $1
	`, b.ID, b.Category, b.Amount, b.Period, b.StartDate, b.AlertThreshold)
}

func (s *Postgres) DeleteBudget(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM budgets WHERE id = $1`, id)
}

// ============================================================================
// SAVINGS GOALS
// ============================================================================

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, notes`

func scanGoal(row scanner) (*models.SavingsGoal, error) {
	var g models.SavingsGoal
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Notes); err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (s *Postgres) CreateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error {
	g.ID = newID(g.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO savings_goals (`+goalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Notes)
	return mapErr(err)
}

func (s *Postgres) GetSavingsGoal(ctx context.Context, id string) (*models.SavingsGoal, error) {
	return scanGoal(s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM savings_goals WHERE id = $1`, id))
}

func (s *Postgres) ListSavingsGoalsByUser(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM savings_goals WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.SavingsGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Postgres) UpdateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error {
	return execOne(ctx, s.db, `
		UPDATE savings_goals
		SET name = $2, target_amount = $3, current_amount = $4, deadline = $5, notes = $6
		WHERE id = $1
	`, g.ID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Notes)
}

func (s *Postgres) DeleteSavingsGoal(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM savings_goals WHERE id = $1`, id)
}

// ============================================================================
// COMMUNITY TIPS
// ============================================================================

const tipColumns = `id, user_id, title, content, date_posted, likes, approved`

func scanTip(row scanner) (*models.CommunityTip, error) {
	var t models.CommunityTip
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.DatePosted, &t.Likes, &t.Approved); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

// filterClause renders a ListFilter as a WHERE clause over $1.
func filterClause(f ListFilter) (string, []any) {
	switch {
	case f.ApprovedOnly && f.UserID != "":
		return ` WHERE approved = TRUE AND user_id = $1`, []any{f.UserID}
	case f.ApprovedOnly:
		return ` WHERE approved = TRUE`, nil
	case f.UserID != "":
		return ` WHERE user_id = $1`, []any{f.UserID}
	default:
		return "", nil
	}
}

func (s *Postgres) CreateTip(ctx context.Context, t *models.CommunityTip) error {
	t.ID = newID(t.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO community_tips (`+tipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.UserID, t.Title, t.Content, t.DatePosted, t.Likes, t.Approved)
	return mapErr(err)
}

func (s *Postgres) GetTip(ctx context.Context, id string) (*models.CommunityTip, error) {
	return scanTip(s.db.QueryRowContext(ctx, `SELECT `+tipColumns+` FROM community_tips WHERE id = $1`, id))
}

func (s *Postgres) ListTips(ctx context.Context, f ListFilter) ([]models.CommunityTip, error) {
	where, args := filterClause(f)
	rows, err := s.db.QueryContext(ctx, `SELECT `+tipColumns+` FROM community_tips`+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tips := []models.CommunityTip{}
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, err
		}
		tips = append(tips, *t)
	}
	return tips, rows.Err()
}

func (s *Postgres) ModifyTip(ctx context.Context, id string, fn func(*models.CommunityTip) error) (*models.CommunityTip, error) {
	var out *models.CommunityTip
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		t, err := scanTip(tx.QueryRowContext(ctx, `SELECT `+tipColumns+` FROM community_tips WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		if err := execOne(ctx, tx, `
			UPDATE community_tips SET title = $2, content = $3, likes = $4, approved = $5 WHERE id = $1
		`, t.ID, t.Title, t.Content, t.Likes, t.Approved); err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

func (s *Postgres) RemoveTip(ctx context.Context, id string, check func(*models.CommunityTip) error) error {
	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		t, err := scanTip(tx.QueryRowContext(ctx, `SELECT `+tipColumns+` FROM community_tips WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(t); err != nil {
				return err
			}
		}
		return execOne(ctx, tx, `DELETE FROM community_tips WHERE id = $1`, id)
	})
}

func (s *Postgres) LikeTip(ctx context.Context, id, userID string) (*models.CommunityTip, error) {
	var out *models.CommunityTip
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		t, err := scanTip(tx.QueryRowContext(ctx, `SELECT `+tipColumns+` FROM community_tips WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tip_likes (tip_id, user_id) VALUES ($1, $2)
			ON CONFLICT (tip_id, user_id) DO NOTHING
		`, id, userID)
		if err != nil {
			return fmt.Errorf("failed to record like: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			if err := tx.QueryRowContext(ctx,
				`UPDATE community_tips SET likes = likes + 1 WHERE id = $1 RETURNING likes`, id,
			).Scan(&t.Likes); err != nil {
				return err
			}
		}
		out = t
		return nil
	})
	return out, err
}

// ============================================================================
// DEALS
// ============================================================================

const dealColumns = `id, user_id, store, description, discount, expiry_date, approved`

func scanDeal(row scanner) (*models.Deal, error) {
	var d models.Deal
	if err := row.Scan(&d.ID, &d.UserID, &d.Store, &d.Description, &d.Discount, &d.ExpiryDate, &d.Approved); err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *Postgres) CreateDeal(ctx context.Context, d *models.Deal) error {
	d.ID = newID(d.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deals (`+dealColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.UserID, d.Store, d.Description, d.Discount, d.ExpiryDate, d.Approved)
	return mapErr(err)
}

func (s *Postgres) GetDeal(ctx context.Context, id string) (*models.Deal, error) {
	return scanDeal(s.db.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
}

func (s *Postgres) ListDeals(ctx context.Context, f ListFilter) ([]models.Deal, error) {
	where, args := filterClause(f)
	rows, err := s.db.QueryContext(ctx, `SELECT `+dealColumns+` FROM deals`+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *d)
	}
	return deals, rows.Err()
}

func (s *Postgres) ModifyDeal(ctx context.Context, id string, fn func(*models.Deal) error) (*models.Deal, error) {
	var out *models.Deal
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		d, err := scanDeal(tx.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		if err := execOne(ctx, tx, `
			UPDATE deals SET store = $2, description = $3, discount = $4, expiry_date = $5, approved = $6 WHERE id = $1
		`, d.ID, d.Store, d.Description, d.Discount, d.ExpiryDate, d.Approved); err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

func (s *Postgres) RemoveDeal(ctx context.Context, id string, check func(*models.Deal) error) error {
	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		d, err := scanDeal(tx.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(d); err != nil {
				return err
			}
		}
		return execOne(ctx, tx, `DELETE FROM deals WHERE id = $1`, id)
	})
}

var _ Store = (*Postgres)(nil)
