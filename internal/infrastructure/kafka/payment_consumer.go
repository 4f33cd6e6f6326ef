package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/usecase"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	pkgkafka "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/kafka"
)

// PaymentRecorded is the message the payment integration emits after it
// writes a loan_payments row.
type PaymentRecorded struct {
	PaymentID string `json:"payment_id"`
	TenantID  string `json:"tenant_id" validate:"required"`
	LoanID    string `json:"loan_id" validate:"required"`
	Reference string `json:"reference,omitempty"`
	Amount    string `json:"amount,omitempty"`
}

var payloadValidator = validator.New(validator.WithRequiredStructEnabled())

// PaymentHandler re-harmonizes a loan each time a payment lands.
type PaymentHandler struct {
	harmonizer usecase.LoanHarmonizer
	logger     *slog.Logger
}

func NewPaymentHandler(harmonizer usecase.LoanHarmonizer, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{harmonizer: harmonizer, logger: logger}
}

// Handle returns an error only for failures worth retrying. Malformed
// messages and loans that cannot be harmonized are logged and acknowledged.
func (h *PaymentHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var p PaymentRecorded
	if err := json.Unmarshal(msg.Value, &p); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed payment message", "key", string(msg.Key), "error", err)
		return nil
	}
	if err := payloadValidator.Struct(p); err != nil {
		h.logger.WarnContext(ctx, "dropping incomplete payment message", "payment_id", p.PaymentID, "error", err)
		return nil
	}

	resp, err := h.harmonizer.Execute(ctx, dto.HarmonizeLoanRequest{TenantID: p.TenantID, LoanID: p.LoanID})
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "loan harmonized after payment",
			"loan_id", p.LoanID,
			"payment_id", p.PaymentID,
			"reference", p.Reference,
			"outstanding", resp.CalculatedOutstanding.StringFixed(2),
		)
		return nil
	case errors.Is(err, port.ErrLoanNotFound), errors.Is(err, model.ErrInvalidTerms):
		h.logger.WarnContext(ctx, "payment for loan that cannot be harmonized",
			"loan_id", p.LoanID, "payment_id", p.PaymentID, "error", err)
		return nil
	default:
		return fmt.Errorf("harmonize loan %s: %w", p.LoanID, err)
	}
}

// NewPaymentConsumer subscribes handler to topic.
func NewPaymentConsumer(cfg pkgkafka.Config, topic string, handler *PaymentHandler, logger *slog.Logger) (*pkgkafka.Consumer, error) {
	return pkgkafka.NewConsumer(cfg, topic, handler.Handle, logger)
}
