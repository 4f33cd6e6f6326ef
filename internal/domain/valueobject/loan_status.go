package valueobject

import (
	"errors"
	"strings"
)

// ---------------------------------------------------------------------------
// LoanStatus – raw lifecycle status as stored on the loan row
// ---------------------------------------------------------------------------

// LoanStatus is the stored lifecycle status. Unlike the other value objects
// it tolerates values it does not recognise, since display derivation passes
// them through unchanged.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending    = "pending"
	loanStatusApproved   = "approved"
	loanStatusDisbursed  = "disbursed"
	loanStatusActive     = "active"
	loanStatusInArrears  = "in_arrears"
	loanStatusOverpaid   = "overpaid"
	loanStatusClosed     = "closed"
	loanStatusRejected   = "rejected"
	loanStatusWithdrawn  = "withdrawn"
	loanStatusWrittenOff = "written_off"
	loanStatusUnknown    = "unknown"
)

var (
	LoanStatusPending    = LoanStatus{value: loanStatusPending}
	LoanStatusApproved   = LoanStatus{value: loanStatusApproved}
	LoanStatusDisbursed  = LoanStatus{value: loanStatusDisbursed}
	LoanStatusActive     = LoanStatus{value: loanStatusActive}
	LoanStatusInArrears  = LoanStatus{value: loanStatusInArrears}
	LoanStatusOverpaid   = LoanStatus{value: loanStatusOverpaid}
	LoanStatusClosed     = LoanStatus{value: loanStatusClosed}
	LoanStatusRejected   = LoanStatus{value: loanStatusRejected}
	LoanStatusWithdrawn  = LoanStatus{value: loanStatusWithdrawn}
	LoanStatusWrittenOff = LoanStatus{value: loanStatusWrittenOff}
	LoanStatusUnknown    = LoanStatus{value: loanStatusUnknown}
)

var knownLoanStatuses = map[string]LoanStatus{
	loanStatusPending:    LoanStatusPending,
	loanStatusApproved:   LoanStatusApproved,
	loanStatusDisbursed:  LoanStatusDisbursed,
	loanStatusActive:     LoanStatusActive,
	loanStatusInArrears:  LoanStatusInArrears,
	loanStatusOverpaid:   LoanStatusOverpaid,
	loanStatusClosed:     LoanStatusClosed,
	loanStatusRejected:   LoanStatusRejected,
	loanStatusWithdrawn:  LoanStatusWithdrawn,
	loanStatusWrittenOff: LoanStatusWrittenOff,
}

// repaymentStatuses are the lifecycle states in which a loan carries a live
// repayment schedule.
var repaymentStatuses = []LoanStatus{
	LoanStatusDisbursed,
	LoanStatusActive,
	LoanStatusInArrears,
	LoanStatusOverpaid,
}

// RepaymentStatusValues lists the stored status values of loans under
// repayment. Pending, approved and terminal loans are excluded.
func RepaymentStatusValues() []string {
	out := make([]string, 0, len(repaymentStatuses))
	for _, s := range repaymentStatuses {
		out = append(out, s.value)
	}
	return out
}

// InRepayment reports whether s is one of RepaymentStatusValues.
func (s LoanStatus) InRepayment() bool {
	for _, r := range repaymentStatuses {
		if s.Equal(r) {
			return true
		}
	}
	return false
}

// ErrUnknownLoanStatus is returned by NewLoanStatus for unrecognised input.
var ErrUnknownLoanStatus = errors.New("unknown loan status")

// NewLoanStatus is the strict constructor used when writing statuses.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := knownLoanStatuses[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LoanStatus{}, ErrUnknownLoanStatus
	}
	return v, nil
}

// ParseLoanStatus is the lenient constructor used when reading rows. Known
// values are canonicalised, other non-empty values are kept verbatim and
// empty input yields LoanStatusUnknown.
func ParseLoanStatus(s string) LoanStatus {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return LoanStatusUnknown
	}
	if v, ok := knownLoanStatuses[strings.ToLower(trimmed)]; ok {
		return v
	}
	return LoanStatus{value: trimmed}
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }
