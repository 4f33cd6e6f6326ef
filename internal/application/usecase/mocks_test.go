package usecase_test

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/event"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return testutil.DiscardLogger()
}

func noopMeter() metric.Meter {
	return noop.NewMeterProvider().Meter("usecase_test")
}

// ---------------------------------------------------------------------------
// mockLoanStore
// ---------------------------------------------------------------------------

type mockLoanStore struct {
	fetchLoanFunc      func(ctx context.Context, tenantID, loanID string) (model.Loan, error)
	fetchScheduleFunc  func(ctx context.Context, loanID string) ([]model.ScheduleEntry, error)
	fetchPaymentsFunc  func(ctx context.Context, loanID string) ([]model.Payment, error)
	deleteScheduleFunc func(ctx context.Context, loanID string) error
	insertEntriesFunc  func(ctx context.Context, entries []model.ScheduleEntry) error
	updateEntryFunc    func(ctx context.Context, entry model.ScheduleEntry) error
	updateLoanFunc     func(ctx context.Context, loan model.Loan) error
	listLoanIDsFunc    func(ctx context.Context, tenantID string) ([]string, error)
	recordEventsFunc   func(ctx context.Context, evts ...event.DomainEvent) error

	deletedSchedules []string
	insertedEntries  []model.ScheduleEntry
	updatedEntries   []model.ScheduleEntry
	updatedLoans     []model.Loan
	recordedEvents   []event.DomainEvent
}

func (m *mockLoanStore) FetchLoan(ctx context.Context, tenantID, loanID string) (model.Loan, error) {
	if m.fetchLoanFunc != nil {
		return m.fetchLoanFunc(ctx, tenantID, loanID)
	}
	return model.Loan{}, port.ErrLoanNotFound
}

func (m *mockLoanStore) FetchSchedule(ctx context.Context, loanID string) ([]model.ScheduleEntry, error) {
	if m.fetchScheduleFunc != nil {
		return m.fetchScheduleFunc(ctx, loanID)
	}
	return nil, nil
}

func (m *mockLoanStore) FetchPayments(ctx context.Context, loanID string) ([]model.Payment, error) {
	if m.fetchPaymentsFunc != nil {
		return m.fetchPaymentsFunc(ctx, loanID)
	}
	return nil, nil
}

func (m *mockLoanStore) DeleteSchedule(ctx context.Context, loanID string) error {
	if m.deleteScheduleFunc != nil {
		if err := m.deleteScheduleFunc(ctx, loanID); err != nil {
			return err
		}
	}
	m.deletedSchedules = append(m.deletedSchedules, loanID)
	return nil
}

func (m *mockLoanStore) InsertScheduleEntries(ctx context.Context, entries []model.ScheduleEntry) error {
	if m.insertEntriesFunc != nil {
		if err := m.insertEntriesFunc(ctx, entries); err != nil {
			return err
		}
	}
	m.insertedEntries = append(m.insertedEntries, entries...)
	return nil
}

func (m *mockLoanStore) UpdateScheduleEntry(ctx context.Context, entry model.ScheduleEntry) error {
	if m.updateEntryFunc != nil {
		if err := m.updateEntryFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.updatedEntries = append(m.updatedEntries, entry)
	return nil
}

func (m *mockLoanStore) UpdateLoan(ctx context.Context, loan model.Loan) error {
	if m.updateLoanFunc != nil {
		if err := m.updateLoanFunc(ctx, loan); err != nil {
			return err
		}
	}
	m.updatedLoans = append(m.updatedLoans, loan)
	return nil
}

func (m *mockLoanStore) ListLoanIDs(ctx context.Context, tenantID string) ([]string, error) {
	if m.listLoanIDsFunc != nil {
		return m.listLoanIDsFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockLoanStore) RecordEvents(ctx context.Context, evts ...event.DomainEvent) error {
	if m.recordEventsFunc != nil {
		if err := m.recordEventsFunc(ctx, evts...); err != nil {
			return err
		}
	}
	m.recordedEvents = append(m.recordedEvents, evts...)
	return nil
}

// ---------------------------------------------------------------------------
// mockTransactor
// ---------------------------------------------------------------------------

type mockTransactor struct {
	store     *mockLoanStore
	commits   int
	rollbacks int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store port.LoanStore) error) error {
	if err := fn(ctx, m.store); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

// ---------------------------------------------------------------------------
// mockLocker
// ---------------------------------------------------------------------------

type mockLocker struct {
	mu       sync.Mutex
	lockErr  error
	locked   []string
	released int
}

func (m *mockLocker) Lock(_ context.Context, tenantID, loanID string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	m.locked = append(m.locked, tenantID+"/"+loanID)
	return func() {
		m.mu.Lock()
		m.released++
		m.mu.Unlock()
	}, nil
}

// ---------------------------------------------------------------------------
// mockHarmonizer
// ---------------------------------------------------------------------------

type mockHarmonizer struct {
	executeFunc func(ctx context.Context, req dto.HarmonizeLoanRequest) (dto.HarmonizationResponse, error)
	calls       []string
}

func (m *mockHarmonizer) Execute(ctx context.Context, req dto.HarmonizeLoanRequest) (dto.HarmonizationResponse, error) {
	m.calls = append(m.calls, req.LoanID)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, req)
	}
	return dto.HarmonizationResponse{LoanID: req.LoanID}, nil
}
