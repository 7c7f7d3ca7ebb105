package lists

import (
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

// NextDueDate advances due by one recurrence step. Monthly steps use
// time.AddDate, so Jan 31 becomes Mar 2 or 3. It returns nil for a nil due
// date and for RecurrenceNone or unknown kinds.
func NextDueDate(due *time.Time, recurrence models.Recurrence) *time.Time {
	if due == nil {
		return nil
	}

	var next time.Time
	switch recurrence {
	case models.RecurrenceDaily:
		next = due.AddDate(0, 0, 1)
	case models.RecurrenceWeekly:
		next = due.AddDate(0, 0, 7)
	case models.RecurrenceMonthly:
		next = due.AddDate(0, 1, 0)
	default:
		return nil
	}
	return &next
}
