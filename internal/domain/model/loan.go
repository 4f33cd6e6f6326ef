package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/event"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/money"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	disbursementDate   time.Time
	createdAt          time.Time
	updatedAt          time.Time
	id                 string
	tenantID           string
	productID          string
	currency           money.Currency
	principal          decimal.Decimal
	interestRate       decimal.Decimal
	outstandingBalance decimal.Decimal
	frequency          valueobject.RepaymentFrequency
	method             valueobject.CalculationMethod
	status             valueobject.LoanStatus
	domainEvents       []event.DomainEvent
	termMonths         int
	daysInArrears      int
	version            int
}

// LoanRecord carries the persisted columns of a loan joined with its
// product configuration.
type LoanRecord struct {
	DisbursementDate   time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ID                 string
	TenantID           string
	ProductID          string
	Currency           money.Currency
	Principal          decimal.Decimal
	InterestRate       decimal.Decimal
	OutstandingBalance decimal.Decimal
	Frequency          valueobject.RepaymentFrequency
	Method             valueobject.CalculationMethod
	Status             valueobject.LoanStatus
	TermMonths         int
	DaysInArrears      int
	Version            int
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(r LoanRecord) Loan {
	status := r.Status
	if status.IsZero() {
		status = valueobject.LoanStatusUnknown
	}
	return Loan{
		id:                 r.ID,
		tenantID:           r.TenantID,
		productID:          r.ProductID,
		principal:          r.Principal,
		currency:           r.Currency,
		interestRate:       r.InterestRate,
		termMonths:         r.TermMonths,
		disbursementDate:   r.DisbursementDate,
		frequency:          r.Frequency,
		method:             r.Method,
		status:             status,
		outstandingBalance: r.OutstandingBalance,
		daysInArrears:      r.DaysInArrears,
		version:            r.Version,
		createdAt:          r.CreatedAt,
		updatedAt:          r.UpdatedAt,
	}
}

// Terms builds schedule inputs using the supplied annual rate percentage,
// which is normally the normalized form of InterestRate.
func (l Loan) Terms(annualRatePercent decimal.Decimal) LoanTerms {
	return LoanTerms{
		Principal:                 l.principal,
		AnnualInterestRatePercent: annualRatePercent,
		TermMonths:                l.termMonths,
		DisbursementDate:          l.disbursementDate,
		Frequency:                 l.frequency,
		Method:                    l.method,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ApplyHarmonization stores the corrected rate, balance and arrears and
// records LoanHarmonized, plus ScheduleRegenerated when the schedule was rebuilt.
func (l Loan) ApplyHarmonization(res HarmonizationResult, installments int, now time.Time) Loan {
	next := l
	next.interestRate = res.CorrectedInterestRate
	next.outstandingBalance = res.CalculatedOutstanding
	next.daysInArrears = res.DaysInArrears
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)

	if res.Regenerated {
		next.domainEvents = append(next.domainEvents, event.NewScheduleRegenerated(
			l.id, l.tenantID, l.frequency.String(), l.Terms(res.CorrectedInterestRate).ResolvedMethod().String(),
			res.CorrectedInterestRate, installments, res.EntriesReallocated,
		))
	}
	next.domainEvents = append(next.domainEvents, event.NewLoanHarmonized(
		l.id, l.tenantID, l.currency.Code(),
		res.CorrectedInterestRate, res.TotalScheduledAmount, res.TotalPaidAmount, res.CalculatedOutstanding,
		res.DaysInArrears, res.ScheduleConsistent,
	))
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                                { return l.id }
func (l Loan) TenantID() string                          { return l.tenantID }
func (l Loan) ProductID() string                         { return l.productID }
func (l Loan) Principal() decimal.Decimal                { return l.principal }
func (l Loan) Currency() money.Currency                  { return l.currency }
func (l Loan) InterestRate() decimal.Decimal             { return l.interestRate }
func (l Loan) TermMonths() int                           { return l.termMonths }
func (l Loan) DisbursementDate() time.Time               { return l.disbursementDate }
func (l Loan) Frequency() valueobject.RepaymentFrequency { return l.frequency }
func (l Loan) Method() valueobject.CalculationMethod     { return l.method }
func (l Loan) Status() valueobject.LoanStatus            { return l.status }
func (l Loan) OutstandingBalance() decimal.Decimal       { return l.outstandingBalance }
func (l Loan) DaysInArrears() int                        { return l.daysInArrears }
func (l Loan) Version() int                              { return l.version }
func (l Loan) CreatedAt() time.Time                      { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                      { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent         { return l.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if src == nil {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
