package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
)

// MaxTermInstallments bounds TermMonths so every frequency's due dates stay
// within the recurrence horizon.
const MaxTermInstallments = 600

// LoanTerms are the inputs of one schedule calculation. They are assembled
// from the loan and product rows and never stored on their own.
type LoanTerms struct {
	DisbursementDate          time.Time
	Principal                 decimal.Decimal
	AnnualInterestRatePercent decimal.Decimal
	Frequency                 valueobject.RepaymentFrequency
	Method                    valueobject.CalculationMethod
	// TermMonths is the installment count regardless of frequency.
	TermMonths int
}

// Validate reports the first reason the terms are unusable, wrapping
// ErrInvalidTerms.
func (t LoanTerms) Validate() error {
	switch {
	case !t.Principal.IsPositive():
		return fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidTerms, t.Principal)
	case t.TermMonths <= 0:
		return fmt.Errorf("%w: term must be positive, got %d", ErrInvalidTerms, t.TermMonths)
	case t.TermMonths > MaxTermInstallments:
		return fmt.Errorf("%w: term must be at most %d installments, got %d", ErrInvalidTerms, MaxTermInstallments, t.TermMonths)
	case t.AnnualInterestRatePercent.IsNegative():
		return fmt.Errorf("%w: interest rate must not be negative, got %s", ErrInvalidTerms, t.AnnualInterestRatePercent)
	case t.Frequency.IsZero():
		return fmt.Errorf("%w: repayment frequency is required", ErrInvalidTerms)
	case t.DisbursementDate.IsZero():
		return fmt.Errorf("%w: disbursement date is required", ErrInvalidTerms)
	}
	return nil
}

// ResolvedMethod returns the calculation method, defaulting to reducing balance.
func (t LoanTerms) ResolvedMethod() valueobject.CalculationMethod {
	if t.Method.IsZero() {
		return valueobject.MethodReducingBalance
	}
	return t.Method
}
