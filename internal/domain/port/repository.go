package port

import (
	"context"
	"errors"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/event"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
)

var (
	// ErrLoanNotFound is returned when no loan matches tenant and ID.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrVersionConflict is returned when the loan row changed since it was read.
	ErrVersionConflict = errors.New("loan version conflict")
	// ErrLockNotObtained is returned when another harmonization holds the loan.
	ErrLockNotObtained = errors.New("loan lock not obtained")
)

// ---------------------------------------------------------------------------
// Persistence ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanStore is the row-level persistence API harmonization runs against.
// Implementations bound to a transaction see each other's writes.
type LoanStore interface {
	FetchLoan(ctx context.Context, tenantID, loanID string) (model.Loan, error)
	// FetchSchedule returns entries ordered by installment number.
	FetchSchedule(ctx context.Context, loanID string) ([]model.ScheduleEntry, error)
	// FetchPayments returns payments ordered by payment date.
	FetchPayments(ctx context.Context, loanID string) ([]model.Payment, error)
	DeleteSchedule(ctx context.Context, loanID string) error
	InsertScheduleEntries(ctx context.Context, entries []model.ScheduleEntry) error
	// UpdateScheduleEntry writes the paid, outstanding and status columns.
	UpdateScheduleEntry(ctx context.Context, entry model.ScheduleEntry) error
	// UpdateLoan writes the interest rate, outstanding balance and arrears,
	// failing with ErrVersionConflict if the stored version differs.
	UpdateLoan(ctx context.Context, loan model.Loan) error
	ListLoanIDs(ctx context.Context, tenantID string) ([]string, error)
	// RecordEvents appends events to the transactional outbox.
	RecordEvents(ctx context.Context, evts ...event.DomainEvent) error
}

// Transactor runs fn against a LoanStore bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store LoanStore) error) error
}

// ---------------------------------------------------------------------------
// Coordination ports
// ---------------------------------------------------------------------------

// LoanLocker serializes harmonization per loan.
type LoanLocker interface {
	// Lock returns ErrLockNotObtained when the loan is already held.
	Lock(ctx context.Context, tenantID, loanID string) (unlock func(), err error)
}
