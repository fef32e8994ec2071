package services

import (
	"testing"
	"time"

	"github.com/smartspend/smartspend-api/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		period    string
		startDate string
		now       string
		wantStart string
		wantEnd   string
	}{
		{"calendar month", models.PeriodMonthly, "2026-01-01", "2026-03-15", "2026-03-01", "2026-04-01"},
		{"monthly ignores mid-month start", models.PeriodMonthly, "2026-01-20", "2026-03-15", "2026-03-01", "2026-04-01"},
		{"monthly before start is the current month", models.PeriodMonthly, "2026-05-10", "2026-04-01", "2026-04-01", "2026-05-01"},
		{"quarter end clamps to april", models.PeriodQuarterly, "2026-01-31", "2026-05-10", "2026-04-30", "2026-07-31"},
		{"day before clamped boundary", models.PeriodQuarterly, "2026-01-31", "2026-04-29", "2026-01-31", "2026-04-30"},
		{"weekly", models.PeriodWeekly, "2026-03-02", "2026-03-18", "2026-03-16", "2026-03-23"},
		{"weekly first day", models.PeriodWeekly, "2026-03-02", "2026-03-02", "2026-03-02", "2026-03-09"},
		{"quarterly", models.PeriodQuarterly, "2026-01-15", "2026-05-20", "2026-04-15", "2026-07-15"},
		{"annually", models.PeriodAnnually, "2025-09-01", "2026-10-18", "2026-09-01", "2027-09-01"},
		{"before start uses first window", models.PeriodQuarterly, "2026-05-10", "2026-04-01", "2026-05-10", "2026-08-10"},
		{"unknown period is monthly", "fortnightly", "2026-01-15", "2026-02-10", "2026-02-01", "2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := mustDate(t, tt.now).Add(15 * time.Hour)
			start, end, err := Window(tt.period, tt.startDate, now)
			if err != nil {
				t.Fatalf("Window: %v", err)
			}
			if got := start.Format(models.DateLayout); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format(models.DateLayout); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestWindowContainsNow(t *testing.T) {
	periods := []string{models.PeriodWeekly, models.PeriodMonthly, models.PeriodQuarterly, models.PeriodAnnually}
	anchor := "2024-01-31"
	day := mustDate(t, "2024-02-01")

	for i := 0; i < 800; i += 7 {
		now := day.AddDate(0, 0, i)
		for _, p := range periods {
			start, end, err := Window(p, anchor, now)
			if err != nil {
				t.Fatal(err)
			}
			if now.Before(start) || !now.Before(end) {
				t.Fatalf("%s window [%s, %s) does not contain %s", p, start.Format(models.DateLayout),
					end.Format(models.DateLayout), now.Format(models.DateLayout))
			}
		}
	}
}

func TestWindowInvalidStartDate(t *testing.T) {
	if _, _, err := Window(models.PeriodMonthly, "03/01/2026", time.Now()); err == nil {
		t.Fatal("expected error for malformed start date")
	}
}

func TestWindowUsesUTCDay(t *testing.T) {
	// 00:30 on April 1st in UTC+2 is still March 31st in UTC.
	now := time.Date(2026, 4, 1, 0, 30, 0, 0, time.FixedZone("CEST", 2*60*60))

	start, end, err := Window(models.PeriodMonthly, "2026-01-01", now)
	if err != nil {
		t.Fatal(err)
	}
	if start.Format(models.DateLayout) != "2026-03-01" || end.Format(models.DateLayout) != "2026-04-01" {
		t.Errorf("monthly window = [%s, %s)", start.Format(models.DateLayout), end.Format(models.DateLayout))
	}

	start, _, err = Window(models.PeriodWeekly, "2026-03-25", now)
	if err != nil {
		t.Fatal(err)
	}
	if got := start.Format(models.DateLayout); got != "2026-03-25" {
		t.Errorf("weekly start = %s, want 2026-03-25", got)
	}
	if got := dateOf(now).Format(models.DateLayout); got != "2026-03-31" {
		t.Errorf("dateOf = %s, want 2026-03-31", got)
	}
}
