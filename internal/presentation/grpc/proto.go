package grpc

// proto.go defines the wire messages and service descriptor of
// loanspur.lending.v1.LoanEngineService. Messages travel through the JSON
// codec registered in json_codec.go, so monetary values are decimal strings.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

type HarmonizeLoanRequest struct {
	TenantID string `json:"tenant_id"`
	LoanID   string `json:"loan_id"`
}

type HarmonizationResult struct {
	LoanID                string `json:"loan_id"`
	TotalScheduledAmount  string `json:"total_scheduled_amount"`
	TotalPaidAmount       string `json:"total_paid_amount"`
	CalculatedOutstanding string `json:"calculated_outstanding"`
	CorrectedInterestRate string `json:"corrected_interest_rate"`
	DaysInArrears         int32  `json:"days_in_arrears"`
	EntriesReallocated    int32  `json:"entries_reallocated"`
	ScheduleConsistent    bool   `json:"schedule_consistent"`
	Regenerated           bool   `json:"regenerated"`
}

type HarmonizeLoanResponse struct {
	Result *HarmonizationResult `json:"result"`
}

type HarmonizePortfolioRequest struct {
	TenantID string   `json:"tenant_id"`
	LoanIDs  []string `json:"loan_ids,omitempty"`
}

type LoanFailure struct {
	LoanID string `json:"loan_id"`
	Error  string `json:"error"`
}

// HarmonizePortfolioResponse sets Interrupted when the run stopped before
// every loan was processed.
type HarmonizePortfolioResponse struct {
	TenantID    string                 `json:"tenant_id"`
	StartedAt   string                 `json:"started_at"`
	FinishedAt  string                 `json:"finished_at"`
	Results     []*HarmonizationResult `json:"results"`
	Failures    []*LoanFailure         `json:"failures,omitempty"`
	Total       int32                  `json:"total"`
	Regenerated int32                  `json:"regenerated"`
	Interrupted bool                   `json:"interrupted,omitempty"`
}

type GetLoanStatusRequest struct {
	TenantID        string `json:"tenant_id"`
	LoanID          string `json:"loan_id"`
	IncludeSchedule bool   `json:"include_schedule"`
}

type ScheduleEntry struct {
	InstallmentNumber int32  `json:"installment_number"`
	DueDate           string `json:"due_date"`
	Principal         string `json:"principal"`
	Interest          string `json:"interest"`
	Fee               string `json:"fee"`
	Total             string `json:"total"`
	Paid              string `json:"paid"`
	Outstanding       string `json:"outstanding"`
	Status            string `json:"status"`
}

type GetLoanStatusResponse struct {
	LoanID             string           `json:"loan_id"`
	RawStatus          string           `json:"raw_status"`
	Status             string           `json:"status"`
	OutstandingBalance string           `json:"outstanding_balance"`
	TotalPaid          string           `json:"total_paid"`
	OverpaidAmount     string           `json:"overpaid_amount"`
	DaysInArrears      int32            `json:"days_in_arrears"`
	Schedule           []*ScheduleEntry `json:"schedule,omitempty"`
}

// PreviewScheduleRequest takes DisbursementDate as YYYY-MM-DD.
type PreviewScheduleRequest struct {
	DisbursementDate   string `json:"disbursement_date"`
	Principal          string `json:"principal"`
	InterestRate       string `json:"interest_rate"`
	RepaymentFrequency string `json:"repayment_frequency"`
	CalculationMethod  string `json:"calculation_method,omitempty"`
	TermMonths         int32  `json:"term_months"`
}

type PreviewScheduleResponse struct {
	NormalizedInterestRate string           `json:"normalized_interest_rate"`
	TotalPrincipal         string           `json:"total_principal"`
	TotalInterest          string           `json:"total_interest"`
	TotalRepayable         string           `json:"total_repayable"`
	Schedule               []*ScheduleEntry `json:"schedule"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// LoanEngineServiceServer is the server API for LoanEngineService.
type LoanEngineServiceServer interface {
	HarmonizeLoan(context.Context, *HarmonizeLoanRequest) (*HarmonizeLoanResponse, error)
	HarmonizePortfolio(context.Context, *HarmonizePortfolioRequest) (*HarmonizePortfolioResponse, error)
	GetLoanStatus(context.Context, *GetLoanStatusRequest) (*GetLoanStatusResponse, error)
	PreviewSchedule(context.Context, *PreviewScheduleRequest) (*PreviewScheduleResponse, error)
	mustEmbedUnimplementedLoanEngineServiceServer()
}

// UnimplementedLoanEngineServiceServer provides forward-compatible default implementations.
type UnimplementedLoanEngineServiceServer struct{}

func (UnimplementedLoanEngineServiceServer) HarmonizeLoan(context.Context, *HarmonizeLoanRequest) (*HarmonizeLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method HarmonizeLoan not implemented")
}
func (UnimplementedLoanEngineServiceServer) HarmonizePortfolio(context.Context, *HarmonizePortfolioRequest) (*HarmonizePortfolioResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method HarmonizePortfolio not implemented")
}
func (UnimplementedLoanEngineServiceServer) GetLoanStatus(context.Context, *GetLoanStatusRequest) (*GetLoanStatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoanStatus not implemented")
}
func (UnimplementedLoanEngineServiceServer) PreviewSchedule(context.Context, *PreviewScheduleRequest) (*PreviewScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PreviewSchedule not implemented")
}
func (UnimplementedLoanEngineServiceServer) mustEmbedUnimplementedLoanEngineServiceServer() {}

// RegisterLoanEngineServiceServer registers srv with the gRPC server.
func RegisterLoanEngineServiceServer(s grpclib.ServiceRegistrar, srv LoanEngineServiceServer) {
	s.RegisterService(&_LoanEngineService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanEngineService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "loanspur.lending.v1.LoanEngineService",
	HandlerType: (*LoanEngineServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "HarmonizeLoan", Handler: _LoanEngineService_HarmonizeLoan_Handler},
		{MethodName: "HarmonizePortfolio", Handler: _LoanEngineService_HarmonizePortfolio_Handler},
		{MethodName: "GetLoanStatus", Handler: _LoanEngineService_GetLoanStatus_Handler},
		{MethodName: "PreviewSchedule", Handler: _LoanEngineService_PreviewSchedule_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "loanspur/lending/v1/loan_engine.proto",
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanEngineService_HarmonizeLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(HarmonizeLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanEngineServiceServer).HarmonizeLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loanspur.lending.v1.LoanEngineService/HarmonizeLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanEngineServiceServer).HarmonizeLoan(ctx, req.(*HarmonizeLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanEngineService_HarmonizePortfolio_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(HarmonizePortfolioRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanEngineServiceServer).HarmonizePortfolio(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loanspur.lending.v1.LoanEngineService/HarmonizePortfolio",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanEngineServiceServer).HarmonizePortfolio(ctx, req.(*HarmonizePortfolioRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanEngineService_GetLoanStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLoanStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanEngineServiceServer).GetLoanStatus(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loanspur.lending.v1.LoanEngineService/GetLoanStatus",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanEngineServiceServer).GetLoanStatus(ctx, req.(*GetLoanStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanEngineService_PreviewSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(PreviewScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanEngineServiceServer).PreviewSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/loanspur.lending.v1.LoanEngineService/PreviewSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanEngineServiceServer).PreviewSchedule(ctx, req.(*PreviewScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}
