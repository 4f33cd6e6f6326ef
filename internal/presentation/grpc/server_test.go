package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

func startTestServer(t *testing.T, handler LoanEngineServiceServer) *grpc.ClientConn {
	t.Helper()

	srv, err := NewServer(handler, ServerOptions{ServiceName: "loan-engine", Reflection: true}, testutil.DiscardLogger())
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_HealthAndJSONCodec(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn := startTestServer(t, newTestHandler(&mockHarmonizer{err: port.ErrLoanNotFound}, nil, nil))

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "loan-engine"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.Status)

	var preview PreviewScheduleResponse
	err = conn.Invoke(ctx, "/loanspur.lending.v1.LoanEngineService/PreviewSchedule", &PreviewScheduleRequest{
		DisbursementDate:   "2024-01-15",
		Principal:          "60000",
		InterestRate:       "12",
		RepaymentFrequency: "monthly",
		TermMonths:         6,
	}, &preview, grpc.CallContentSubtype(codecName))
	require.NoError(t, err)
	assert.Len(t, preview.Schedule, 6)
	assert.Equal(t, "60000.00", preview.TotalPrincipal)

	var harmonized HarmonizeLoanResponse
	err = conn.Invoke(ctx, "/loanspur.lending.v1.LoanEngineService/HarmonizeLoan",
		&HarmonizeLoanRequest{TenantID: "t", LoanID: "missing"}, &harmonized, grpc.CallContentSubtype(codecName))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
