package services

import (
	"testing"

	"github.com/smartspend/smartspend-api/models"
)

func budget(amount float64, threshold int) models.Budget {
	return models.Budget{
		ID:             "b1",
		UserID:         "u1",
		Category:       "Food",
		Amount:         amount,
		Period:         models.PeriodMonthly,
		StartDate:      "2026-01-01",
		AlertThreshold: threshold,
	}
}

func expenses(amounts ...float64) []models.Expense {
	out := make([]models.Expense, len(amounts))
	for i, a := range amounts {
		out[i] = models.Expense{UserID: "u1", Category: "Food", Amount: a, Date: "2026-03-10"}
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		budget      models.Budget
		expenses    []models.Expense
		wantSpent   float64
		wantPercent int
		wantAlert   bool
		wantStatus  string
	}{
		{"under threshold", budget(100, 80), expenses(20, 30), 50, 50, false, models.BudgetStatusOK},
		{"at threshold", budget(100, 80), expenses(50, 30), 80, 80, true, models.BudgetStatusNearLimit},
		{"exactly spent", budget(100, 80), expenses(100), 100, 100, true, models.BudgetStatusNearLimit},
		{"over budget clamps to 100", budget(100, 80), expenses(150), 150, 100, true, models.BudgetStatusOverBudget},
		{"rounds half up", budget(200, 80), expenses(159), 159, 80, true, models.BudgetStatusNearLimit},
		{"rounds down", budget(200, 80), expenses(158.9), 158.9, 79, false, models.BudgetStatusOK},
		{"zero amount never divides", budget(0, 80), expenses(25), 25, 0, false, models.BudgetStatusOK},
		{"no expenses", budget(100, 1), nil, 0, 0, false, models.BudgetStatusOK},
		{"decimal sum", budget(0.3, 100), expenses(0.1, 0.2), 0.3, 100, true, models.BudgetStatusNearLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.budget, tt.expenses)
			if got.Spent != tt.wantSpent {
				t.Errorf("spent = %v, want %v", got.Spent, tt.wantSpent)
			}
			if got.PercentSpent != tt.wantPercent {
				t.Errorf("percentSpent = %d, want %d", got.PercentSpent, tt.wantPercent)
			}
			if got.IsAlert != tt.wantAlert {
				t.Errorf("isAlert = %v, want %v", got.IsAlert, tt.wantAlert)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestEvaluatePercentBoundsAndAlertRule(t *testing.T) {
	amounts := []float64{0, 1, 9.99, 50, 100, 1234.56}
	spends := []float64{0, 0.01, 5, 49.99, 99.5, 100, 5000}

	for _, amount := range amounts {
		for _, spent := range spends {
			for threshold := 1; threshold <= 100; threshold += 11 {
				st := Evaluate(budget(amount, threshold), expenses(spent))
				if st.PercentSpent < 0 || st.PercentSpent > 100 {
					t.Fatalf("percentSpent %d out of range (amount=%v spent=%v)", st.PercentSpent, amount, spent)
				}
				if st.IsAlert != (st.PercentSpent >= threshold) {
					t.Fatalf("isAlert=%v with percent=%d threshold=%d", st.IsAlert, st.PercentSpent, threshold)
				}
			}
		}
	}
}

func TestEvaluateAtSelectsWindowUserAndCategory(t *testing.T) {
	b := budget(100, 80)
	all := []models.Expense{
		{UserID: "u1", Category: "Food", Amount: 40, Date: "2026-03-01"},
		{UserID: "u1", Category: "food", Amount: 20, Date: "2026-03-31"},
		{UserID: "u1", Category: "Food", Amount: 500, Date: "2026-02-28"}, // previous window
		{UserID: "u1", Category: "Food", Amount: 500, Date: "2026-04-01"}, // next window
		{UserID: "u1", Category: "Rent", Amount: 500, Date: "2026-03-05"},
		{UserID: "u2", Category: "Food", Amount: 500, Date: "2026-03-05"},
	}

	st := EvaluateAt(b, all, mustDate(t, "2026-03-20"))
	if st.Spent != 60 {
		t.Errorf("spent = %v, want 60", st.Spent)
	}
	if st.PercentSpent != 60 || st.IsAlert {
		t.Errorf("got percent=%d alert=%v", st.PercentSpent, st.IsAlert)
	}
	if st.WindowStart != "2026-03-01" || st.WindowEnd != "2026-03-31" {
		t.Errorf("window = %s..%s", st.WindowStart, st.WindowEnd)
	}
}

func TestAlertsSortedByPercentDesc(t *testing.T) {
	budgets := []models.Budget{
		{ID: "food", UserID: "u1", Category: "Food", Amount: 100, Period: models.PeriodMonthly, StartDate: "2026-01-01", AlertThreshold: 80},
		{ID: "rent", UserID: "u1", Category: "Rent", Amount: 100, Period: models.PeriodMonthly, StartDate: "2026-01-01", AlertThreshold: 50},
		{ID: "fun", UserID: "u1", Category: "Entertainment", Amount: 100, Period: models.PeriodMonthly, StartDate: "2026-01-01", AlertThreshold: 90},
	}
	all := []models.Expense{
		{UserID: "u1", Category: "Food", Amount: 85, Date: "2026-03-02"},
		{UserID: "u1", Category: "Rent", Amount: 120, Date: "2026-03-02"},
		{UserID: "u1", Category: "Entertainment", Amount: 10, Date: "2026-03-02"},
	}

	alerts := Alerts(budgets, all, mustDate(t, "2026-03-15"))
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
	if alerts[0].ID != "rent" || alerts[1].ID != "food" {
		t.Errorf("order = %s, %s", alerts[0].ID, alerts[1].ID)
	}
	if alerts[0].Status != models.BudgetStatusOverBudget {
		t.Errorf("rent status = %s", alerts[0].Status)
	}
}

func TestAlertsEmptyIsNotNil(t *testing.T) {
	if got := Alerts(nil, nil, mustDate(t, "2026-03-15")); got == nil {
		t.Fatal("Alerts should return an empty slice, not nil")
	}
}
