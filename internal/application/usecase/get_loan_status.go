package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
)

// LoanStatusReader is satisfied by *GetLoanStatusUseCase.
type LoanStatusReader interface {
	Execute(ctx context.Context, req dto.GetLoanStatusRequest) (dto.LoanStatusResponse, error)
}

// GetLoanStatusUseCase derives a loan's display status on read.
type GetLoanStatusUseCase struct {
	tx     port.Transactor
	engine *service.Engine
	now    func() time.Time
}

// NewGetLoanStatusUseCase wires dependencies.
func NewGetLoanStatusUseCase(tx port.Transactor, engine *service.Engine) *GetLoanStatusUseCase {
	return &GetLoanStatusUseCase{
		tx:     tx,
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source used to judge overdue installments.
func (uc *GetLoanStatusUseCase) WithClock(now func() time.Time) *GetLoanStatusUseCase {
	uc.now = now
	return uc
}

// Execute reads the loan, schedule and payments and derives the status.
func (uc *GetLoanStatusUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanStatusRequest,
) (dto.LoanStatusResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.LoanStatusResponse{}, err
	}

	var (
		loan     model.Loan
		schedule []model.ScheduleEntry
		payments []model.Payment
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, store port.LoanStore) error {
		var err error
		if loan, err = store.FetchLoan(ctx, req.TenantID, req.LoanID); err != nil {
			return fmt.Errorf("fetch loan: %w", err)
		}
		if schedule, err = store.FetchSchedule(ctx, loan.ID()); err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
		if payments, err = store.FetchPayments(ctx, loan.ID()); err != nil {
			return fmt.Errorf("fetch payments: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.LoanStatusResponse{}, err
	}

	today := uc.now()
	totalPaid := model.TotalPaid(payments)
	view := uc.engine.Deriver.Derive(service.SnapshotOf(loan, totalPaid), schedule, today)

	resp := dto.LoanStatusResponse{
		LoanID:             loan.ID(),
		RawStatus:          loan.Status().String(),
		Status:             view.Status.String(),
		OutstandingBalance: loan.OutstandingBalance(),
		TotalPaid:          totalPaid,
		OverpaidAmount:     view.OverpaidAmount,
		DaysInArrears:      view.DaysInArrears,
	}
	if req.IncludeSchedule {
		resp.Schedule = toScheduleResponses(schedule, today)
	}
	return resp, nil
}

func toScheduleResponses(entries []model.ScheduleEntry, today time.Time) []dto.ScheduleEntryResponse {
	out := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ScheduleEntryResponse{
			InstallmentNumber: e.InstallmentNumber,
			DueDate:           e.DueDate,
			Principal:         e.Principal,
			Interest:          e.Interest,
			Fee:               e.Fee,
			Total:             e.Total,
			Paid:              e.Paid,
			Outstanding:       e.Outstanding,
			Status:            e.EffectiveStatus(today).String(),
		})
	}
	return out
}
