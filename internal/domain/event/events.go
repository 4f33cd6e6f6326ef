package event

import (
	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeLoanHarmonized      = "lending.loan.harmonized"
	TypeScheduleRegenerated = "lending.loan.schedule_regenerated"

	aggregateLoan = "Loan"
)

// LoanHarmonized is raised after every successful harmonization run.
type LoanHarmonized struct {
	events.BaseEvent
	Currency              string          `json:"currency"`
	CorrectedInterestRate decimal.Decimal `json:"corrected_interest_rate"`
	TotalScheduled        decimal.Decimal `json:"total_scheduled"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	OutstandingBalance    decimal.Decimal `json:"outstanding_balance"`
	DaysInArrears         int             `json:"days_in_arrears"`
	ScheduleConsistent    bool            `json:"schedule_consistent"`
}

func NewLoanHarmonized(
	loanID, tenantID, currency string,
	correctedRate, totalScheduled, totalPaid, outstanding decimal.Decimal,
	daysInArrears int, scheduleConsistent bool,
) LoanHarmonized {
	return LoanHarmonized{
		BaseEvent:             events.NewBaseEvent(TypeLoanHarmonized, loanID, aggregateLoan, tenantID),
		Currency:              currency,
		CorrectedInterestRate: correctedRate,
		TotalScheduled:        totalScheduled,
		TotalPaid:             totalPaid,
		OutstandingBalance:    outstanding,
		DaysInArrears:         daysInArrears,
		ScheduleConsistent:    scheduleConsistent,
	}
}

// ScheduleRegenerated is raised when a stored schedule was discarded and rebuilt.
type ScheduleRegenerated struct {
	events.BaseEvent
	Frequency          string          `json:"frequency"`
	Method             string          `json:"calculation_method"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	Installments       int             `json:"installments"`
	EntriesReallocated int             `json:"entries_reallocated"`
}

func NewScheduleRegenerated(
	loanID, tenantID, frequency, method string,
	rate decimal.Decimal, installments, reallocated int,
) ScheduleRegenerated {
	return ScheduleRegenerated{
		BaseEvent:          events.NewBaseEvent(TypeScheduleRegenerated, loanID, aggregateLoan, tenantID),
		Frequency:          frequency,
		Method:             method,
		InterestRate:       rate,
		Installments:       installments,
		EntriesReallocated: reallocated,
	}
}
