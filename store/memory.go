package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/smartspend/smartspend-api/models"
)

// table keeps rows by ID and remembers insertion order so listings are stable.
type table[T any] struct {
	rows  map[string]T
	order map[string]uint64
	next  uint64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T), order: make(map[string]uint64)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.order[id]; !ok {
		t.next++
		t.order[id] = t.next
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	delete(t.order, id)
	return true
}

func (t *table[T]) list(keep func(T) bool) []T {
	ids := make([]string, 0, len(t.rows))
	for id, v := range t.rows {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return t.order[ids[i]] < t.order[ids[j]] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// Memory is a map-backed Store. Values are copied in and out so callers never
// share state with the maps.
type Memory struct {
	mu sync.RWMutex

	users    *table[models.User]
	incomes  *table[models.Income]
	expenses *table[models.Expense]
	budgets  *table[models.Budget]
	goals    *table[models.SavingsGoal]
	tips     *table[models.CommunityTip]
	deals    *table[models.Deal]

	// tip ID -> set of user IDs that liked it
	likes map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		users:    newTable[models.User](),
		incomes:  newTable[models.Income](),
		expenses: newTable[models.Expense](),
		budgets:  newTable[models.Budget](),
		goals:    newTable[models.SavingsGoal](),
		tips:     newTable[models.CommunityTip](),
		deals:    newTable[models.Deal](),
		likes:    make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Close() error { return nil }

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// ============================================================================
// USERS
// ============================================================================

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users.rows {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return ErrConflict
		}
	}
	u.ID = newID(u.ID)
	m.users.put(u.ID, *u)
	return nil
}

func (m *Memory) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *Memory) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users.rows[u.ID]; !ok {
		return ErrNotFound
	}
	m.users.put(u.ID, *u)
	return nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users.list(nil), nil
}

// ============================================================================
// INCOMES
// ============================================================================

func (m *Memory) CreateIncome(ctx context.Context, in *models.Income) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	in.ID = newID(in.ID)
	m.incomes.put(in.ID, *in)
	return nil
}

func (m *Memory) GetIncome(ctx context.Context, id string) (*models.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	in, ok := m.incomes.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &in, nil
}

func (m *Memory) ListIncomesByUser(ctx context.Context, userID string) ([]models.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.incomes.list(func(in models.Income) bool { return in.UserID == userID }), nil
}

func (m *Memory) UpdateIncome(ctx context.Context, in *models.Income) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.incomes.rows[in.ID]; !ok {
		return ErrNotFound
	}
	m.incomes.put(in.ID, *in)
	return nil
}

func (m *Memory) DeleteIncome(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.incomes.remove(id) {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// EXPENSES
// ============================================================================

func (m *Memory) CreateExpense(ctx context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = newID(e.ID)
	m.expenses.put(e.ID, *e)
	return nil
}

func (m *Memory) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.expenses.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *Memory) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expenses.list(nil), nil
}

func (m *Memory) ListExpensesByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expenses.list(func(e models.Expense) bool { return e.UserID == userID }), nil
}

func (m *Memory) UpdateExpense(ctx context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses.rows[e.ID]; !ok {
		return ErrNotFound
	}
	m.expenses.put(e.ID, *e)
	return nil
}

func (m *Memory) DeleteExpense(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.expenses.remove(id) {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// BUDGETS
// ============================================================================

func (m *Memory) CreateBudget(ctx context.Context, b *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b.ID = newID(b.ID)
	m.budgets.put(b.ID, *b)
	return nil
}

func (m *Memory) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.budgets.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *Memory) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.budgets.list(nil), nil
}

func (m *Memory) ListBudgetsByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.budgets.list(func(b models.Budget) bool { return b.UserID == userID }), nil
}

func (m *Memory) UpdateBudget(ctx context.Context, b *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.budgets.rows[b.ID]; !ok {
		return ErrNotFound
	}
	m.budgets.put(b.ID, *b)
	return nil
}

func (m *Memory) DeleteBudget(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.budgets.remove(id) {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// SAVINGS GOALS
// ============================================================================

func (m *Memory) CreateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g.ID = newID(g.ID)
	m.goals.put(g.ID, *g)
	return nil
}

func (m *Memory) GetSavingsGoal(ctx context.Context, id string) (*models.SavingsGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.goals.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (m *Memory) ListSavingsGoalsByUser(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.goals.list(func(g models.SavingsGoal) bool { return g.UserID == userID }), nil
}

func (m *Memory) UpdateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.goals.rows[g.ID]; !ok {
		return ErrNotFound
	}
	m.goals.put(g.ID, *g)
	return nil
}

func (m *Memory) DeleteSavingsGoal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.goals.remove(id) {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// COMMUNITY TIPS
// ============================================================================

func (m *Memory) CreateTip(ctx context.Context, t *models.CommunityTip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = newID(t.ID)
	m.tips.put(t.ID, *t)
	return nil
}

func (m *Memory) GetTip(ctx context.Context, id string) (*models.CommunityTip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tips.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *Memory) ListTips(ctx context.Context, f ListFilter) ([]models.CommunityTip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.tips.list(func(t models.CommunityTip) bool {
		if f.ApprovedOnly && !t.Approved {
			return false
		}
		return f.UserID == "" || t.UserID == f.UserID
	}), nil
}

func (m *Memory) ModifyTip(ctx context.Context, id string, fn func(*models.CommunityTip) error) (*models.CommunityTip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tips.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&t); err != nil {
		return nil, err
	}
	m.tips.put(id, t)
	return &t, nil
}

func (m *Memory) RemoveTip(ctx context.Context, id string, check func(*models.CommunityTip) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tips.rows[id]
	if !ok {
		return ErrNotFound
	}
	if check != nil {
		if err := check(&t); err != nil {
			return err
		}
	}
	m.tips.remove(id)
	delete(m.likes, id)
	return nil
}

func (m *Memory) LikeTip(ctx context.Context, id, userID string) (*models.CommunityTip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tips.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	likers := m.likes[id]
	if likers == nil {
		likers = make(map[string]struct{})
		m.likes[id] = likers
	}
	if _, seen := likers[userID]; !seen {
		likers[userID] = struct{}{}
		t.Likes++
		m.tips.put(id, t)
	}
	return &t, nil
}

// ============================================================================
// DEALS
// ============================================================================

func (m *Memory) CreateDeal(ctx context.Context, d *models.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d.ID = newID(d.ID)
	m.deals.put(d.ID, *d)
	return nil
}

func (m *Memory) GetDeal(ctx context.Context, id string) (*models.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.deals.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *Memory) ListDeals(ctx context.Context, f ListFilter) ([]models.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.deals.list(func(d models.Deal) bool {
		if f.ApprovedOnly && !d.Approved {
			return false
		}
		return f.UserID == "" || d.UserID == f.UserID
	}), nil
}

func (m *Memory) ModifyDeal(ctx context.Context, id string, fn func(*models.Deal) error) (*models.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.deals.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&d); err != nil {
		return nil, err
	}
	m.deals.put(id, d)
	return &d, nil
}

func (m *Memory) RemoveDeal(ctx context.Context, id string, check func(*models.Deal) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.deals.rows[id]
	if !ok {
		return ErrNotFound
	}
	if check != nil {
		if err := check(&d); err != nil {
			return err
		}
	}
	m.deals.remove(id)
	return nil
}

var _ Store = (*Memory)(nil)
