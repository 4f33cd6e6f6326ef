package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
)

// ScheduleEntry is an immutable value object for one installment. Services
// return modified copies rather than mutating entries in place.
type ScheduleEntry struct {
	DueDate           time.Time
	ID                string
	LoanID            string
	Principal         decimal.Decimal
	Interest          decimal.Decimal
	Fee               decimal.Decimal
	Total             decimal.Decimal
	Paid              decimal.Decimal
	Outstanding       decimal.Decimal
	Status            valueobject.PaymentStatus
	InstallmentNumber int
}

// IsOverdue reports whether the installment fell due before today and is
// not settled.
func (e ScheduleEntry) IsOverdue(today time.Time) bool {
	return calendarDay(e.DueDate).Before(calendarDay(today)) && !e.Status.IsPaid()
}

// EffectiveStatus is the status as displayed on the given day: an unsettled
// installment past its due date reads as overdue.
func (e ScheduleEntry) EffectiveStatus(today time.Time) valueobject.PaymentStatus {
	if e.IsOverdue(today) {
		return valueobject.PaymentStatusOverdue
	}
	if e.Status.IsZero() {
		return valueobject.PaymentStatusUnpaid
	}
	return e.Status
}

// TotalScheduled sums Total across entries.
func TotalScheduled(entries []ScheduleEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Total)
	}
	return sum
}

// calendarDay truncates t to midnight UTC of its own calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(calendarDay(b).Sub(calendarDay(a)).Hours() / 24)
}
