package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/usecase"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
)

const dateLayout = "2006-01-02"

// LoanEngineHandler implements LoanEngineServiceServer on top of the use cases.
type LoanEngineHandler struct {
	UnimplementedLoanEngineServiceServer
	harmonize usecase.LoanHarmonizer
	portfolio usecase.PortfolioHarmonizer
	status    usecase.LoanStatusReader
	preview   usecase.SchedulePreviewer
	logger    *slog.Logger
}

var _ LoanEngineServiceServer = (*LoanEngineHandler)(nil)

func NewLoanEngineHandler(
	harmonize usecase.LoanHarmonizer,
	portfolio usecase.PortfolioHarmonizer,
	statusReader usecase.LoanStatusReader,
	preview usecase.SchedulePreviewer,
	logger *slog.Logger,
) *LoanEngineHandler {
	return &LoanEngineHandler{
		harmonize: harmonize,
		portfolio: portfolio,
		status:    statusReader,
		preview:   preview,
		logger:    logger,
	}
}

func (h *LoanEngineHandler) HarmonizeLoan(ctx context.Context, req *HarmonizeLoanRequest) (*HarmonizeLoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	res, err := h.harmonize.Execute(ctx, dto.HarmonizeLoanRequest{TenantID: req.TenantID, LoanID: req.LoanID})
	if err != nil {
		return nil, h.toStatus(ctx, "HarmonizeLoan", err)
	}
	return &HarmonizeLoanResponse{Result: toResultMessage(res)}, nil
}

// HarmonizePortfolio returns the partial batch when the call's deadline
// interrupts the run, flagging it as Interrupted.
func (h *LoanEngineHandler) HarmonizePortfolio(ctx context.Context, req *HarmonizePortfolioRequest) (*HarmonizePortfolioResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.portfolio.Execute(ctx, dto.HarmonizePortfolioRequest{TenantID: req.TenantID, LoanIDs: req.LoanIDs})
	interrupted := err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) && resp.Total > 0
	if err != nil && !interrupted {
		return nil, h.toStatus(ctx, "HarmonizePortfolio", err)
	}

	out := &HarmonizePortfolioResponse{
		TenantID:    resp.TenantID,
		StartedAt:   resp.StartedAt.Format(time.RFC3339),
		FinishedAt:  resp.FinishedAt.Format(time.RFC3339),
		Total:       int32(resp.Total),
		Regenerated: int32(resp.Regenerated),
		Interrupted: interrupted,
	}
	for _, r := range resp.Results {
		out.Results = append(out.Results, toResultMessage(r))
	}
	for _, f := range resp.Failures {
		out.Failures = append(out.Failures, &LoanFailure{LoanID: f.LoanID, Error: f.Error})
	}
	return out, nil
}

func (h *LoanEngineHandler) GetLoanStatus(ctx context.Context, req *GetLoanStatusRequest) (*GetLoanStatusResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.status.Execute(ctx, dto.GetLoanStatusRequest{
		TenantID:        req.TenantID,
		LoanID:          req.LoanID,
		IncludeSchedule: req.IncludeSchedule,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "GetLoanStatus", err)
	}
	return &GetLoanStatusResponse{
		LoanID:             resp.LoanID,
		RawStatus:          resp.RawStatus,
		Status:             resp.Status,
		OutstandingBalance: amount(resp.OutstandingBalance),
		TotalPaid:          amount(resp.TotalPaid),
		OverpaidAmount:     amount(resp.OverpaidAmount),
		DaysInArrears:      int32(resp.DaysInArrears),
		Schedule:           toScheduleMessages(resp.Schedule),
	}, nil
}

func (h *LoanEngineHandler) PreviewSchedule(ctx context.Context, req *PreviewScheduleRequest) (*PreviewScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	disbursed, err := time.Parse(dateLayout, req.DisbursementDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid disbursement_date: %v", err)
	}
	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid principal: %v", err)
	}
	rate := decimal.Zero
	if req.InterestRate != "" {
		if rate, err = decimal.NewFromString(req.InterestRate); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid interest_rate: %v", err)
		}
	}

	resp, err := h.preview.Execute(ctx, dto.PreviewScheduleRequest{
		DisbursementDate:  disbursed,
		Principal:         principal,
		InterestRate:      rate,
		Frequency:         req.RepaymentFrequency,
		CalculationMethod: req.CalculationMethod,
		TermMonths:        int(req.TermMonths),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "PreviewSchedule", err)
	}
	return &PreviewScheduleResponse{
		NormalizedInterestRate: resp.NormalizedInterestRate.String(),
		TotalPrincipal:         amount(resp.TotalPrincipal),
		TotalInterest:          amount(resp.TotalInterest),
		TotalRepayable:         amount(resp.TotalRepayable),
		Schedule:               toScheduleMessages(resp.Schedule),
	}, nil
}

// toStatus maps use case errors onto gRPC codes. Internal errors are logged
// and returned without detail.
func (h *LoanEngineHandler) toStatus(ctx context.Context, method string, err error) error {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, model.ErrInvalidTerms):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrLoanNotFound):
		return status.Error(codes.NotFound, "loan not found")
	case errors.Is(err, port.ErrLockNotObtained), errors.Is(err, port.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toResultMessage(r dto.HarmonizationResponse) *HarmonizationResult {
	return &HarmonizationResult{
		LoanID:                r.LoanID,
		TotalScheduledAmount:  amount(r.TotalScheduledAmount),
		TotalPaidAmount:       amount(r.TotalPaidAmount),
		CalculatedOutstanding: amount(r.CalculatedOutstanding),
		CorrectedInterestRate: r.CorrectedInterestRate.String(),
		DaysInArrears:         int32(r.DaysInArrears),
		EntriesReallocated:    int32(r.EntriesReallocated),
		ScheduleConsistent:    r.ScheduleConsistent,
		Regenerated:           r.Regenerated,
	}
}

func toScheduleMessages(entries []dto.ScheduleEntryResponse) []*ScheduleEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]*ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, &ScheduleEntry{
			InstallmentNumber: int32(e.InstallmentNumber),
			DueDate:           e.DueDate.Format(dateLayout),
			Principal:         amount(e.Principal),
			Interest:          amount(e.Interest),
			Fee:               amount(e.Fee),
			Total:             amount(e.Total),
			Paid:              amount(e.Paid),
			Outstanding:       amount(e.Outstanding),
			Status:            e.Status,
		})
	}
	return out
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
