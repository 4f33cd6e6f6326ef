package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	pkgkafka "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/kafka"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

type mockHarmonizer struct {
	err   error
	calls []dto.HarmonizeLoanRequest
}

func (m *mockHarmonizer) Execute(_ context.Context, req dto.HarmonizeLoanRequest) (dto.HarmonizationResponse, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return dto.HarmonizationResponse{}, m.err
	}
	return dto.HarmonizationResponse{LoanID: req.LoanID}, nil
}

func paymentMessage(body string) pkgkafka.Message {
	return pkgkafka.Message{Key: []byte(testutil.TestLoanID1), Value: []byte(body)}
}

func TestPaymentHandler(t *testing.T) {
	valid := fmt.Sprintf(`{"payment_id":"p1","tenant_id":%q,"loan_id":%q,"reference":"QK12AB","amount":"1500.00"}`,
		testutil.TestTenantID, testutil.TestLoanID1)

	tests := []struct {
		name      string
		body      string
		execErr   error
		wantCalls int
		wantErr   bool
	}{
		{name: "harmonizes the paid loan", body: valid, wantCalls: 1},
		{name: "malformed json is acknowledged", body: `{not json`, wantCalls: 0},
		{name: "missing loan id is acknowledged", body: `{"tenant_id":"t"}`, wantCalls: 0},
		{name: "unknown loan is acknowledged", body: valid, execErr: port.ErrLoanNotFound, wantCalls: 1},
		{name: "invalid terms are acknowledged", body: valid, execErr: fmt.Errorf("generate schedule: %w", model.ErrInvalidTerms), wantCalls: 1},
		{name: "held lock is retried", body: valid, execErr: fmt.Errorf("lock loan: %w", port.ErrLockNotObtained), wantCalls: 1, wantErr: true},
		{name: "storage failure is retried", body: valid, execErr: errors.New("conn reset"), wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &mockHarmonizer{err: tt.execErr}
			err := NewPaymentHandler(h, testutil.DiscardLogger()).Handle(context.Background(), paymentMessage(tt.body))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, h.calls, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, dto.HarmonizeLoanRequest{TenantID: testutil.TestTenantID, LoanID: testutil.TestLoanID1}, h.calls[0])
			}
		})
	}
}
