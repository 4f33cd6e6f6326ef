package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// StatusDeriver – display status for dashboards
// ---------------------------------------------------------------------------

// LoanSnapshot is the loan state status derivation reads.
type LoanSnapshot struct {
	RawStatus          valueobject.LoanStatus
	Principal          decimal.Decimal
	OutstandingBalance decimal.Decimal
	TotalPaid          decimal.Decimal
}

// SnapshotOf captures loan with the sum of its payments.
func SnapshotOf(loan model.Loan, totalPaid decimal.Decimal) LoanSnapshot {
	return LoanSnapshot{
		RawStatus:          loan.Status(),
		Principal:          loan.Principal(),
		OutstandingBalance: loan.OutstandingBalance(),
		TotalPaid:          totalPaid,
	}
}

// StatusView is the derived display status.
type StatusView struct {
	Status         valueobject.LoanStatus
	OverpaidAmount decimal.Decimal
	DaysInArrears  int
}

// StatusDeriver maps loan and schedule state onto a display status.
type StatusDeriver struct{}

// NewStatusDeriver returns a new deriver.
func NewStatusDeriver() *StatusDeriver {
	return &StatusDeriver{}
}

// Derive evaluates, first match wins:
//  1. negative outstanding, or paid more than the principal -> overpaid;
//  2. any installment overdue -> in_arrears;
//  3. raw "disbursed" -> active;
//  4. raw status unchanged (empty reads as unknown).
func (d *StatusDeriver) Derive(snap LoanSnapshot, schedule []model.ScheduleEntry, today time.Time) StatusView {
	if snap.OutstandingBalance.IsNegative() || snap.TotalPaid.GreaterThan(snap.Principal) {
		return StatusView{
			Status:         valueobject.LoanStatusOverpaid,
			OverpaidAmount: decimal.Max(snap.OutstandingBalance.Neg(), snap.TotalPaid.Sub(snap.Principal)),
		}
	}

	if days := DaysInArrears(schedule, today); days > 0 {
		return StatusView{Status: valueobject.LoanStatusInArrears, DaysInArrears: days}
	}

	if snap.RawStatus.Equal(valueobject.LoanStatusDisbursed) {
		return StatusView{Status: valueobject.LoanStatusActive}
	}
	if snap.RawStatus.IsZero() {
		return StatusView{Status: valueobject.LoanStatusUnknown}
	}
	return StatusView{Status: snap.RawStatus}
}
