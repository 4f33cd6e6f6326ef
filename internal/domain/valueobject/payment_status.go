package valueobject

import (
	"fmt"
	"strings"
)

// PaymentStatus is the settlement state of one installment.
type PaymentStatus struct {
	value string
}

const (
	paymentStatusUnpaid  = "unpaid"
	paymentStatusPartial = "partial"
	paymentStatusPaid    = "paid"
	paymentStatusOverdue = "overdue"
)

var (
	PaymentStatusUnpaid  = PaymentStatus{value: paymentStatusUnpaid}
	PaymentStatusPartial = PaymentStatus{value: paymentStatusPartial}
	PaymentStatusPaid    = PaymentStatus{value: paymentStatusPaid}
	// PaymentStatusOverdue is derived on read and is never stored by the allocator.
	PaymentStatusOverdue = PaymentStatus{value: paymentStatusOverdue}
)

var validPaymentStatuses = map[string]PaymentStatus{
	paymentStatusUnpaid:  PaymentStatusUnpaid,
	paymentStatusPartial: PaymentStatusPartial,
	paymentStatusPaid:    PaymentStatusPaid,
	paymentStatusOverdue: PaymentStatusOverdue,
}

// NewPaymentStatus creates a PaymentStatus from a raw string. Empty maps to unpaid.
func NewPaymentStatus(s string) (PaymentStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentStatusUnpaid, nil
	}
	v, ok := validPaymentStatuses[s]
	if !ok {
		return PaymentStatus{}, fmt.Errorf("invalid payment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s PaymentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s PaymentStatus) Equal(other PaymentStatus) bool { return s.value == other.value }

// IsPaid reports whether the installment is settled.
func (s PaymentStatus) IsPaid() bool { return s.value == paymentStatusPaid }
