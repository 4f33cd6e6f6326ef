package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
)

// SchedulePreviewer is satisfied by *PreviewScheduleUseCase.
type SchedulePreviewer interface {
	Execute(ctx context.Context, req dto.PreviewScheduleRequest) (dto.SchedulePreviewResponse, error)
}

// PreviewScheduleUseCase computes a schedule from ad-hoc terms without
// touching storage.
type PreviewScheduleUseCase struct {
	engine *service.Engine
}

// NewPreviewScheduleUseCase wires dependencies.
func NewPreviewScheduleUseCase(engine *service.Engine) *PreviewScheduleUseCase {
	return &PreviewScheduleUseCase{engine: engine}
}

// Execute parses the terms, normalizes the rate and generates the schedule.
// Unparseable frequency or method values are reported as invalid terms.
func (uc *PreviewScheduleUseCase) Execute(
	_ context.Context,
	req dto.PreviewScheduleRequest,
) (dto.SchedulePreviewResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.SchedulePreviewResponse{}, err
	}

	freq, err := valueobject.NewRepaymentFrequency(req.Frequency)
	if err != nil {
		return dto.SchedulePreviewResponse{}, fmt.Errorf("%w: %v", model.ErrInvalidTerms, err)
	}
	method, err := valueobject.NewCalculationMethod(req.CalculationMethod)
	if err != nil {
		return dto.SchedulePreviewResponse{}, fmt.Errorf("%w: %v", model.ErrInvalidTerms, err)
	}

	rate := uc.engine.Normalizer.Normalize(req.InterestRate)
	schedule, err := uc.engine.Generator.Generate(model.LoanTerms{
		Principal:                 req.Principal,
		AnnualInterestRatePercent: rate,
		TermMonths:                req.TermMonths,
		DisbursementDate:          req.DisbursementDate.UTC(),
		Frequency:                 freq,
		Method:                    method,
	})
	if err != nil {
		return dto.SchedulePreviewResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	principal, interest := decimal.Zero, decimal.Zero
	for _, e := range schedule {
		principal = principal.Add(e.Principal)
		interest = interest.Add(e.Interest)
	}

	return dto.SchedulePreviewResponse{
		NormalizedInterestRate: rate,
		TotalPrincipal:         principal,
		TotalInterest:          interest,
		TotalRepayable:         model.TotalScheduled(schedule),
		Schedule:               toScheduleResponses(schedule, req.DisbursementDate),
	}, nil
}
