package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/money"
)

// LoanHarmonizer is satisfied by *HarmonizeLoanUseCase.
type LoanHarmonizer interface {
	Execute(ctx context.Context, req dto.HarmonizeLoanRequest) (dto.HarmonizationResponse, error)
}

// HarmonizeLoanUseCase repairs a loan's rate, schedule, balance and arrears.
type HarmonizeLoanUseCase struct {
	tx      port.Transactor
	locker  port.LoanLocker
	engine  *service.Engine
	metrics *HarmonizationMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewHarmonizeLoanUseCase wires dependencies. metrics may be nil.
func NewHarmonizeLoanUseCase(
	tx port.Transactor,
	locker port.LoanLocker,
	engine *service.Engine,
	metrics *HarmonizationMetrics,
	logger *slog.Logger,
) *HarmonizeLoanUseCase {
	return &HarmonizeLoanUseCase{
		tx:      tx,
		locker:  locker,
		engine:  engine,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source used for arrears and timestamps.
func (uc *HarmonizeLoanUseCase) WithClock(now func() time.Time) *HarmonizeLoanUseCase {
	uc.now = now
	return uc
}

// Execute harmonizes one loan under its lock and inside one transaction.
// Any failure rolls back every write of the run.
func (uc *HarmonizeLoanUseCase) Execute(
	ctx context.Context,
	req dto.HarmonizeLoanRequest,
) (dto.HarmonizationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.HarmonizationResponse{}, err
	}

	ctx, span := tracer.Start(ctx, "HarmonizeLoan", trace.WithAttributes(
		attribute.String("tenant.id", req.TenantID),
		attribute.String("loan.id", req.LoanID),
	))
	defer span.End()

	started := time.Now()
	res, err := uc.harmonize(ctx, req)
	uc.metrics.record(ctx, res, err, time.Since(started))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.logger.ErrorContext(ctx, "harmonization failed",
			"tenant_id", req.TenantID, "loan_id", req.LoanID, "error", err)
		return dto.HarmonizationResponse{}, err
	}

	span.SetAttributes(
		attribute.Bool("schedule.consistent", res.ScheduleConsistent),
		attribute.Int("loan.days_in_arrears", res.DaysInArrears),
	)
	uc.logger.InfoContext(ctx, "loan harmonized",
		"tenant_id", req.TenantID,
		"loan_id", req.LoanID,
		"schedule_consistent", res.ScheduleConsistent,
		"regenerated", res.Regenerated,
		"outstanding", res.CalculatedOutstanding.StringFixed(2),
		"days_in_arrears", res.DaysInArrears,
	)
	return ToHarmonizationResponse(res), nil
}

func (uc *HarmonizeLoanUseCase) harmonize(ctx context.Context, req dto.HarmonizeLoanRequest) (model.HarmonizationResult, error) {
	// 0. Serialize harmonizations of the same loan.
	unlock, err := uc.locker.Lock(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return model.HarmonizationResult{}, fmt.Errorf("lock loan: %w", err)
	}
	defer unlock()

	var result model.HarmonizationResult
	err = uc.tx.WithinTx(ctx, func(ctx context.Context, store port.LoanStore) error {
		now := uc.now()

		// 1. Load the loan and normalize its stored rate.
		loan, err := store.FetchLoan(ctx, req.TenantID, req.LoanID)
		if err != nil {
			return fmt.Errorf("fetch loan: %w", err)
		}
		rate := uc.engine.Normalizer.Normalize(loan.InterestRate())
		if uc.engine.Normalizer.IsAmbiguous(loan.InterestRate()) {
			uc.logger.WarnContext(ctx, "ambiguous stored interest rate treated as 100%",
				"loan_id", loan.ID(), "raw_rate", loan.InterestRate().String())
		}
		if uc.engine.Normalizer.DriftsOnRerun(loan.InterestRate()) {
			uc.logger.WarnContext(ctx, "corrected interest rate will be rescaled again on the next run",
				"loan_id", loan.ID(), "raw_rate", loan.InterestRate().String(), "corrected_rate", rate.String())
		}
		terms := loan.Terms(rate)

		// 2. Current schedule and payment history.
		schedule, err := store.FetchSchedule(ctx, loan.ID())
		if err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
		payments, err := store.FetchPayments(ctx, loan.ID())
		if err != nil {
			return fmt.Errorf("fetch payments: %w", err)
		}

		// 3. Total paid.
		totalPaid := model.TotalPaid(payments)

		// 4. Validate the stored schedule.
		reason := uc.engine.Validator.Check(schedule, terms, rate)
		consistent := reason == service.Consistent

		// 5. Rebuild and replay payments when inconsistent.
		reallocated := 0
		if !consistent {
			uc.logger.InfoContext(ctx, "regenerating schedule",
				"loan_id", loan.ID(), "reason", string(reason), "entries", len(schedule))

			schedule, reallocated, err = uc.regenerate(ctx, store, loan, terms, payments)
			if err != nil {
				return err
			}
		}

		// 6. Totals from the (possibly rebuilt) schedule.
		totalScheduled := model.TotalScheduled(schedule)
		outstanding := money.NonNegative(totalScheduled.Sub(totalPaid))

		// 7. Arrears.
		days := service.DaysInArrears(schedule, now)

		result = model.HarmonizationResult{
			LoanID:                loan.ID(),
			TotalScheduledAmount:  totalScheduled,
			TotalPaidAmount:       totalPaid,
			CalculatedOutstanding: outstanding,
			CorrectedInterestRate: rate,
			DaysInArrears:         days,
			ScheduleConsistent:    consistent,
			Regenerated:           !consistent,
			EntriesReallocated:    reallocated,
		}

		// 8. Persist the loan and its events atomically.
		updated := loan.ApplyHarmonization(result, len(schedule), now)
		if err := store.UpdateLoan(ctx, updated); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		if err := store.RecordEvents(ctx, updated.DomainEvents()...); err != nil {
			return fmt.Errorf("record events: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.HarmonizationResult{}, err
	}
	return result, nil
}

func (uc *HarmonizeLoanUseCase) regenerate(
	ctx context.Context,
	store port.LoanStore,
	loan model.Loan,
	terms model.LoanTerms,
	payments []model.Payment,
) ([]model.ScheduleEntry, int, error) {
	fresh, err := uc.engine.Generator.Generate(terms)
	if err != nil {
		return nil, 0, fmt.Errorf("generate schedule: %w", err)
	}
	for i := range fresh {
		fresh[i].ID = uuid.NewString()
		fresh[i].LoanID = loan.ID()
	}

	if err := store.DeleteSchedule(ctx, loan.ID()); err != nil {
		return nil, 0, fmt.Errorf("delete schedule: %w", err)
	}
	if err := store.InsertScheduleEntries(ctx, fresh); err != nil {
		return nil, 0, fmt.Errorf("insert schedule: %w", err)
	}

	alloc := uc.engine.Allocator.Allocate(fresh, payments)
	for _, entry := range alloc.Entries[:alloc.Touched] {
		if err := store.UpdateScheduleEntry(ctx, entry); err != nil {
			return nil, 0, fmt.Errorf("update schedule entry %d: %w", entry.InstallmentNumber, err)
		}
	}
	if alloc.Unapplied.IsPositive() {
		uc.logger.InfoContext(ctx, "payments exceed schedule total",
			"loan_id", loan.ID(), "unapplied", alloc.Unapplied.StringFixed(2))
	}
	return alloc.Entries, alloc.Touched, nil
}

// ToHarmonizationResponse maps a result onto its DTO.
func ToHarmonizationResponse(res model.HarmonizationResult) dto.HarmonizationResponse {
	return dto.HarmonizationResponse{
		LoanID:                res.LoanID,
		TotalScheduledAmount:  res.TotalScheduledAmount,
		TotalPaidAmount:       res.TotalPaidAmount,
		CalculatedOutstanding: res.CalculatedOutstanding,
		CorrectedInterestRate: res.CorrectedInterestRate,
		DaysInArrears:         res.DaysInArrears,
		EntriesReallocated:    res.EntriesReallocated,
		ScheduleConsistent:    res.ScheduleConsistent,
		Regenerated:           res.Regenerated,
	}
}
