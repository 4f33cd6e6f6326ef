package model

import "github.com/shopspring/decimal"

// HarmonizationResult summarises one harmonization run.
type HarmonizationResult struct {
	LoanID                string
	TotalScheduledAmount  decimal.Decimal
	TotalPaidAmount       decimal.Decimal
	CalculatedOutstanding decimal.Decimal
	CorrectedInterestRate decimal.Decimal
	DaysInArrears         int
	EntriesReallocated    int
	// ScheduleConsistent is the state found before any repair.
	ScheduleConsistent bool
	Regenerated        bool
}
