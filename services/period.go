package services

import (
	"fmt"
	"time"

	"github.com/smartspend/smartspend-api/models"
)

// periodMonths returns the window length in months, or 0 for weekly.
func periodMonths(period string) int {
	switch period {
	case models.PeriodWeekly:
		return 0
	case models.PeriodQuarterly:
		return 3
	case models.PeriodAnnually:
		return 12
	default:
		return 1
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// dateOf is the UTC calendar day of t. Every "today" in the services is a UTC
// day so budget windows, deal expiry and summaries agree around midnight.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// addMonths moves anchor forward n months, clamping the day to the length of
// the target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(anchor time.Time, n int) time.Time {
	first := time.Date(anchor.Year(), anchor.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := anchor.Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// Window returns the [start, end) window of a budget period that contains now.
// Monthly budgets use the calendar month. Weekly, quarterly and annual windows
// repeat from startDate; before startDate the first window is returned.
func Window(period, startDate string, now time.Time) (time.Time, time.Time, error) {
	anchor, err := parseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	today := dateOf(now)

	months := periodMonths(period)
	if months == 1 {
		start, end := monthWindow(now)
		return start, end, nil
	}
	if months == 0 {
		k := 0
		if today.After(anchor) {
			k = int(today.Sub(anchor).Hours()/24) / 7
		}
		start := anchor.AddDate(0, 0, 7*k)
		return start, start.AddDate(0, 0, 7), nil
	}

	k := 0
	if today.After(anchor) {
		diff := (today.Year()-anchor.Year())*12 + int(today.Month()-anchor.Month())
		k = diff / months
		for k > 0 && addMonths(anchor, k*months).After(today) {
			k--
		}
	}
	return addMonths(anchor, k*months), addMonths(anchor, (k+1)*months), nil
}

// inWindow reports whether a YYYY-MM-DD date falls in [start, end).
func inWindow(date string, start, end time.Time) bool {
	d, err := parseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(start) && d.Before(end)
}

// monthWindow is the UTC calendar month containing now.
func monthWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
