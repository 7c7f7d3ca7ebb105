package lists_test

import (
	"testing"
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 30, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name       string
		due        time.Time
		recurrence models.Recurrence
		want       time.Time
	}{
		{name: "daily", due: date(2024, 3, 1), recurrence: models.RecurrenceDaily, want: date(2024, 3, 2)},
		{name: "weekly", due: date(2024, 3, 1), recurrence: models.RecurrenceWeekly, want: date(2024, 3, 8)},
		{name: "monthly", due: date(2024, 3, 1), recurrence: models.RecurrenceMonthly, want: date(2024, 4, 1)},
		{name: "daily across year end", due: date(2023, 12, 31), recurrence: models.RecurrenceDaily, want: date(2024, 1, 1)},
		{name: "monthly overflow normalizes", due: date(2024, 1, 31), recurrence: models.RecurrenceMonthly, want: date(2024, 3, 2)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := lists.NextDueDate(&test.due, test.recurrence)
			if got == nil {
				t.Fatal("NextDueDate returned nil")
			}
			if !got.Equal(test.want) {
				t.Errorf("NextDueDate = %v, want %v", got, test.want)
			}
		})
	}
}

func TestNextDueDate_NoStep(t *testing.T) {
	due := date(2024, 3, 1)
	tests := []struct {
		name       string
		due        *time.Time
		recurrence models.Recurrence
	}{
		{name: "none", due: &due, recurrence: models.RecurrenceNone},
		{name: "unknown kind", due: &due, recurrence: "yearly"},
		{name: "missing due date", due: nil, recurrence: models.RecurrenceWeekly},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := lists.NextDueDate(test.due, test.recurrence); got != nil {
				t.Errorf("NextDueDate = %v, want nil", got)
			}
		})
	}
}

func TestNextDueDate_DoesNotModifyInput(t *testing.T) {
	due := date(2024, 3, 1)
	lists.NextDueDate(&due, models.RecurrenceWeekly)
	if !due.Equal(date(2024, 3, 1)) {
		t.Errorf("due changed to %v", due)
	}
}
