package service

import (
	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RepaymentAllocator – oldest-first waterfall over installment totals
// ---------------------------------------------------------------------------

// settledTolerance is the outstanding amount at or below which an
// installment counts as paid.
var settledTolerance = decimal.RequireFromString("0.01")

// Allocation is the outcome of one reallocation pass.
type Allocation struct {
	// Entries is a new slice ordered by installment number.
	Entries []model.ScheduleEntry
	// Applied is the amount placed onto installments.
	Applied decimal.Decimal
	// Unapplied is the pool left after the last installment.
	Unapplied decimal.Decimal
	// Touched counts the leading entries rewritten by this pass.
	Touched int
}

// RepaymentAllocator replays payments onto a schedule.
type RepaymentAllocator struct{}

// NewRepaymentAllocator returns a new allocator.
func NewRepaymentAllocator() *RepaymentAllocator {
	return &RepaymentAllocator{}
}

// Reallocate returns schedule with every payment reapplied. Inputs are not modified.
func (a *RepaymentAllocator) Reallocate(schedule []model.ScheduleEntry, payments []model.Payment) []model.ScheduleEntry {
	return a.Allocate(schedule, payments).Entries
}

// Allocate pools all payments and walks installments in order, applying
// min(pool, total) to each. Once the pool is exhausted the remaining
// entries keep their prior state. There is no split between principal and
// interest below the installment total.
func (a *RepaymentAllocator) Allocate(schedule []model.ScheduleEntry, payments []model.Payment) Allocation {
	entries := sortedByInstallment(schedule)
	pool := model.TotalPaid(payments)
	applied := decimal.Zero
	touched := 0

	for i, e := range entries {
		if !pool.IsPositive() {
			break
		}
		amount := decimal.Min(pool, e.Total)
		pool = pool.Sub(amount)
		applied = applied.Add(amount)

		e.Paid = amount
		e.Outstanding = e.Total.Sub(amount)
		e.Status = settlementStatus(amount, e.Total, e.Outstanding)
		entries[i] = e
		touched++
	}

	return Allocation{
		Entries:   entries,
		Applied:   applied,
		Unapplied: pool,
		Touched:   touched,
	}
}

func settlementStatus(applied, total, outstanding decimal.Decimal) valueobject.PaymentStatus {
	switch {
	case outstanding.LessThanOrEqual(settledTolerance):
		return valueobject.PaymentStatusPaid
	case applied.IsPositive() && applied.LessThan(total):
		return valueobject.PaymentStatusPartial
	default:
		return valueobject.PaymentStatusUnpaid
	}
}
