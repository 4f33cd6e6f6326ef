package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
)

// PortfolioHarmonizer is satisfied by *HarmonizePortfolioUseCase.
type PortfolioHarmonizer interface {
	Execute(ctx context.Context, req dto.HarmonizePortfolioRequest) (dto.PortfolioResponse, error)
}

// HarmonizePortfolioUseCase harmonizes a tenant's loans one after another.
// Each loan commits on its own; a failing loan is recorded and the loop
// moves on.
type HarmonizePortfolioUseCase struct {
	tx         port.Transactor
	harmonizer LoanHarmonizer
	logger     *slog.Logger
}

// NewHarmonizePortfolioUseCase wires dependencies.
func NewHarmonizePortfolioUseCase(
	tx port.Transactor,
	harmonizer LoanHarmonizer,
	logger *slog.Logger,
) *HarmonizePortfolioUseCase {
	return &HarmonizePortfolioUseCase{tx: tx, harmonizer: harmonizer, logger: logger}
}

// Execute runs the batch. It stops early only when ctx is cancelled, in which
// case the partial response is returned together with the context error.
func (uc *HarmonizePortfolioUseCase) Execute(
	ctx context.Context,
	req dto.HarmonizePortfolioRequest,
) (dto.PortfolioResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.PortfolioResponse{}, err
	}

	resp := dto.PortfolioResponse{
		TenantID:  req.TenantID,
		StartedAt: time.Now().UTC(),
	}

	// 1. Resolve the loans to process.
	loanIDs := req.LoanIDs
	if len(loanIDs) == 0 {
		err := uc.tx.WithinTx(ctx, func(ctx context.Context, store port.LoanStore) error {
			ids, err := store.ListLoanIDs(ctx, req.TenantID)
			loanIDs = ids
			return err
		})
		if err != nil {
			return dto.PortfolioResponse{}, fmt.Errorf("list loans: %w", err)
		}
	}
	resp.Total = len(loanIDs)

	uc.logger.InfoContext(ctx, "portfolio harmonization started",
		"tenant_id", req.TenantID, "loans", resp.Total)

	// 2. Harmonize sequentially.
	for i, loanID := range loanIDs {
		if err := ctx.Err(); err != nil {
			resp.FinishedAt = time.Now().UTC()
			uc.logger.WarnContext(ctx, "portfolio harmonization interrupted",
				"tenant_id", req.TenantID, "processed", i, "total", resp.Total)
			return resp, fmt.Errorf("portfolio interrupted after %d of %d loans: %w", i, resp.Total, err)
		}

		res, err := uc.harmonizer.Execute(ctx, dto.HarmonizeLoanRequest{TenantID: req.TenantID, LoanID: loanID})
		if err != nil {
			resp.Failures = append(resp.Failures, dto.LoanFailure{LoanID: loanID, Error: err.Error()})
			continue
		}
		if res.Regenerated {
			resp.Regenerated++
		}
		resp.Results = append(resp.Results, res)
	}

	resp.FinishedAt = time.Now().UTC()
	uc.logger.InfoContext(ctx, "portfolio harmonization finished",
		"tenant_id", req.TenantID,
		"total", resp.Total,
		"succeeded", len(resp.Results),
		"failed", len(resp.Failures),
		"regenerated", resp.Regenerated,
		"elapsed", resp.FinishedAt.Sub(resp.StartedAt).String(),
	)
	return resp, nil
}
