package service

import (
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
)

// DaysInArrears counts days since the earliest installment that fell due
// before today and is not paid. It returns 0 when nothing is overdue and at
// least 1 otherwise.
func DaysInArrears(schedule []model.ScheduleEntry, today time.Time) int {
	var earliest time.Time
	found := false
	for _, e := range schedule {
		if !e.IsOverdue(today) {
			continue
		}
		if !found || e.DueDate.Before(earliest) {
			earliest = e.DueDate
			found = true
		}
	}
	if !found {
		return 0
	}
	return max(model.DaysBetween(earliest, today), 1)
}
