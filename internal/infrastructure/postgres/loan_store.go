package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/event"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/events"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/money"
	pgpkg "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/postgres"
)

// invalidTextRepresentation is raised when an ID is not a valid UUID.
const invalidTextRepresentation = "22P02"

// LoanStore implements port.LoanStore against a pool or a transaction.
type LoanStore struct {
	q pgpkg.Querier
}

var _ port.LoanStore = (*LoanStore)(nil)

// NewLoanStore binds a store to q.
func NewLoanStore(q pgpkg.Querier) *LoanStore {
	return &LoanStore{q: q}
}

// FetchLoan joins the loan with its product; loan-level frequency and
// method override the product's.
func (s *LoanStore) FetchLoan(ctx context.Context, tenantID, loanID string) (model.Loan, error) {
	query := `
		SELECT l.id::text, l.tenant_id::text, l.product_id::text,
		       l.principal, l.currency, l.interest_rate, l.term_months, l.disbursement_date,
		       COALESCE(NULLIF(l.repayment_frequency, ''), p.repayment_frequency),
		       COALESCE(NULLIF(l.calculation_method, ''), p.calculation_method),
		       l.status, l.outstanding_balance, l.days_in_arrears,
		       l.version, l.created_at, l.updated_at
		FROM loans l
		JOIN loan_products p ON p.id = l.product_id
		WHERE l.tenant_id = $1 AND l.id = $2
	`
	var (
		r                                   model.LoanRecord
		currency, frequency, method, status string
	)
	err := s.q.QueryRow(ctx, query, tenantID, loanID).Scan(
		&r.ID, &r.TenantID, &r.ProductID,
		&r.Principal, &currency, &r.InterestRate, &r.TermMonths, &r.DisbursementDate,
		&frequency, &method,
		&status, &r.OutstandingBalance, &r.DaysInArrears,
		&r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return model.Loan{}, port.ErrLoanNotFound
		}
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	if r.Currency, err = money.NewCurrency(currency); err != nil {
		return model.Loan{}, fmt.Errorf("parse currency: %w", err)
	}
	if r.Frequency, err = valueobject.NewRepaymentFrequency(frequency); err != nil {
		return model.Loan{}, fmt.Errorf("parse repayment frequency: %w", err)
	}
	if r.Method, err = valueobject.NewCalculationMethod(method); err != nil {
		return model.Loan{}, fmt.Errorf("parse calculation method: %w", err)
	}
	r.Status = valueobject.ParseLoanStatus(status)
	r.DisbursementDate = r.DisbursementDate.UTC()

	return model.ReconstructLoan(r), nil
}

func (s *LoanStore) FetchSchedule(ctx context.Context, loanID string) ([]model.ScheduleEntry, error) {
	query := `
		SELECT id::text, loan_id::text, installment_number, due_date,
		       principal_amount, interest_amount, fee_amount, total_amount,
		       paid_amount, outstanding_amount, payment_status
		FROM loan_schedules
		WHERE loan_id = $1
		ORDER BY installment_number
	`
	rows, err := s.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var schedule []model.ScheduleEntry
	for rows.Next() {
		var (
			e      model.ScheduleEntry
			status string
		)
		if err := rows.Scan(
			&e.ID, &e.LoanID, &e.InstallmentNumber, &e.DueDate,
			&e.Principal, &e.Interest, &e.Fee, &e.Total,
			&e.Paid, &e.Outstanding, &status,
		); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		if e.Status, err = valueobject.NewPaymentStatus(status); err != nil {
			return nil, fmt.Errorf("schedule entry %d: %w", e.InstallmentNumber, err)
		}
		e.DueDate = e.DueDate.UTC()
		schedule = append(schedule, e)
	}
	return schedule, rows.Err()
}

func (s *LoanStore) FetchPayments(ctx context.Context, loanID string) ([]model.Payment, error) {
	query := `
		SELECT id::text, loan_id::text, COALESCE(schedule_id::text, ''),
		       amount, payment_date, reference, channel
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY payment_date, id
	`
	rows, err := s.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.ScheduleID, &p.Amount, &p.PaidAt, &p.Reference, &p.Channel); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *LoanStore) DeleteSchedule(ctx context.Context, loanID string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM loan_schedules WHERE loan_id = $1`, loanID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func (s *LoanStore) InsertScheduleEntries(ctx context.Context, entries []model.ScheduleEntry) error {
	query := `
		INSERT INTO loan_schedules (
			id, loan_id, installment_number, due_date,
			principal_amount, interest_amount, fee_amount, total_amount,
			paid_amount, outstanding_amount, payment_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	for _, e := range entries {
		_, err := s.q.Exec(ctx, query,
			e.ID, e.LoanID, e.InstallmentNumber, e.DueDate,
			e.Principal, e.Interest, e.Fee, e.Total,
			e.Paid, e.Outstanding, statusOrUnpaid(e.Status),
		)
		if err != nil {
			return fmt.Errorf("insert schedule entry %d: %w", e.InstallmentNumber, err)
		}
	}
	return nil
}

func (s *LoanStore) UpdateScheduleEntry(ctx context.Context, entry model.ScheduleEntry) error {
	query := `
		UPDATE loan_schedules
		SET paid_amount = $1, outstanding_amount = $2, payment_status = $3
		WHERE id = $4
	`
	tag, err := s.q.Exec(ctx, query, entry.Paid, entry.Outstanding, statusOrUnpaid(entry.Status), entry.ID)
	if err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update schedule entry %s: no such row", entry.ID)
	}
	return nil
}

// UpdateLoan writes the harmonized columns and bumps the version. It fails
// with port.ErrVersionConflict when the row moved on since it was read.
func (s *LoanStore) UpdateLoan(ctx context.Context, loan model.Loan) error {
	query := `
		UPDATE loans
		SET interest_rate       = $1,
		    outstanding_balance = $2,
		    days_in_arrears     = $3,
		    version             = version + 1,
		    updated_at          = $4
		WHERE tenant_id = $5 AND id = $6 AND version = $7
	`
	tag, err := s.q.Exec(ctx, query,
		loan.InterestRate(), loan.OutstandingBalance(), loan.DaysInArrears(),
		updatedAt(loan), loan.TenantID(), loan.ID(), loan.Version(),
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

// ListLoanIDs returns the tenant's loans under repayment, oldest first.
func (s *LoanStore) ListLoanIDs(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id::text FROM loans
		WHERE tenant_id = $1 AND lower(status) = ANY($2)
		ORDER BY created_at, id`,
		tenantID, valueobject.RepaymentStatusValues())
	if err != nil {
		return nil, fmt.Errorf("query loan ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect loan ids: %w", err)
	}
	return ids, nil
}

// RecordEvents appends evts to the outbox in the caller's transaction.
func (s *LoanStore) RecordEvents(ctx context.Context, evts ...event.DomainEvent) error {
	query := `
		INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, tenant_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, evt := range evts {
		entry, err := events.NewOutboxEntry(evt)
		if err != nil {
			return err
		}
		_, err = s.q.Exec(ctx, query,
			entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType,
			entry.TenantID, entry.Payload, entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert outbox entry %s: %w", entry.EventType, err)
		}
	}
	return nil
}

func statusOrUnpaid(s valueobject.PaymentStatus) string {
	if s.IsZero() {
		return valueobject.PaymentStatusUnpaid.String()
	}
	return s.String()
}

func updatedAt(loan model.Loan) time.Time {
	if loan.UpdatedAt().IsZero() {
		return time.Now().UTC()
	}
	return loan.UpdatedAt()
}

func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
