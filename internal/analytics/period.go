package analytics

import (
	"time"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// periodWindow returns the half-open [from, to) interval the snapshot covers.
func periodWindow(day time.Time, period enums.PeriodType) (time.Time, time.Time) {
	switch period {
	case enums.PeriodTypeWeekly:
		return day, day.AddDate(0, 0, 7)
	case enums.PeriodTypeMonthly:
		return day, day.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}
