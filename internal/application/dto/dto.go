package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// HarmonizeLoanRequest identifies one loan to harmonize.
type HarmonizeLoanRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	LoanID   string `json:"loan_id" validate:"required"`
}

// HarmonizePortfolioRequest harmonizes every loan of a tenant, or only
// LoanIDs when given.
type HarmonizePortfolioRequest struct {
	TenantID string   `json:"tenant_id" validate:"required"`
	LoanIDs  []string `json:"loan_ids,omitempty" validate:"omitempty,dive,required"`
}

// GetLoanStatusRequest identifies a loan whose display status is wanted.
type GetLoanStatusRequest struct {
	TenantID        string `json:"tenant_id" validate:"required"`
	LoanID          string `json:"loan_id" validate:"required"`
	IncludeSchedule bool   `json:"include_schedule"`
}

// PreviewScheduleRequest carries loan terms for a schedule that is computed
// but not stored. InterestRate is normalized first, like a stored rate.
type PreviewScheduleRequest struct {
	DisbursementDate  time.Time       `json:"disbursement_date" validate:"required"`
	Principal         decimal.Decimal `json:"principal"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	Frequency         string          `json:"repayment_frequency" validate:"required"`
	CalculationMethod string          `json:"calculation_method,omitempty"`
	TermMonths        int             `json:"term_months" validate:"required,gt=0,lte=600"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// HarmonizationResponse is the external form of one harmonization run.
type HarmonizationResponse struct {
	LoanID                string          `json:"loan_id"`
	TotalScheduledAmount  decimal.Decimal `json:"total_scheduled_amount"`
	TotalPaidAmount       decimal.Decimal `json:"total_paid_amount"`
	CalculatedOutstanding decimal.Decimal `json:"calculated_outstanding"`
	CorrectedInterestRate decimal.Decimal `json:"corrected_interest_rate"`
	DaysInArrears         int             `json:"days_in_arrears"`
	EntriesReallocated    int             `json:"entries_reallocated"`
	ScheduleConsistent    bool            `json:"schedule_consistent"`
	Regenerated           bool            `json:"regenerated"`
}

// LoanFailure records a loan a batch run could not harmonize.
type LoanFailure struct {
	LoanID string `json:"loan_id"`
	Error  string `json:"error"`
}

// PortfolioResponse summarises a batch harmonization run.
type PortfolioResponse struct {
	StartedAt   time.Time               `json:"started_at"`
	FinishedAt  time.Time               `json:"finished_at"`
	TenantID    string                  `json:"tenant_id"`
	Results     []HarmonizationResponse `json:"results"`
	Failures    []LoanFailure           `json:"failures,omitempty"`
	Total       int                     `json:"total"`
	Regenerated int                     `json:"regenerated"`
}

// ScheduleEntryResponse is one installment as displayed.
type ScheduleEntryResponse struct {
	DueDate           time.Time       `json:"due_date"`
	Principal         decimal.Decimal `json:"principal"`
	Interest          decimal.Decimal `json:"interest"`
	Fee               decimal.Decimal `json:"fee"`
	Total             decimal.Decimal `json:"total"`
	Paid              decimal.Decimal `json:"paid"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	Status            string          `json:"status"`
	InstallmentNumber int             `json:"installment_number"`
}

// LoanStatusResponse is a loan's derived display status.
type LoanStatusResponse struct {
	LoanID             string                  `json:"loan_id"`
	RawStatus          string                  `json:"raw_status"`
	Status             string                  `json:"status"`
	OutstandingBalance decimal.Decimal         `json:"outstanding_balance"`
	TotalPaid          decimal.Decimal         `json:"total_paid"`
	OverpaidAmount     decimal.Decimal         `json:"overpaid_amount"`
	Schedule           []ScheduleEntryResponse `json:"schedule,omitempty"`
	DaysInArrears      int                     `json:"days_in_arrears"`
}

// SchedulePreviewResponse is a computed schedule with its totals.
type SchedulePreviewResponse struct {
	NormalizedInterestRate decimal.Decimal         `json:"normalized_interest_rate"`
	TotalPrincipal         decimal.Decimal         `json:"total_principal"`
	TotalInterest          decimal.Decimal         `json:"total_interest"`
	TotalRepayable         decimal.Decimal         `json:"total_repayable"`
	Schedule               []ScheduleEntryResponse `json:"schedule"`
}
