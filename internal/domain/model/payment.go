package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an append-only repayment record. It is read during
// harmonization and never modified.
type Payment struct {
	PaidAt time.Time
	ID     string
	LoanID string
	// ScheduleID links the installment the payment was first applied to; empty when unknown.
	ScheduleID string
	Reference  string
	Channel    string
	Amount     decimal.Decimal
}

// TotalPaid sums Amount across payments.
func TotalPaid(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}
