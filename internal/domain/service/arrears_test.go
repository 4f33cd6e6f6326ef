package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

func entryDue(n int, due time.Time, status valueobject.PaymentStatus) model.ScheduleEntry {
	return model.ScheduleEntry{InstallmentNumber: n, DueDate: due, Status: status}
}

func TestDaysInArrears(t *testing.T) {
	today := testutil.Date(2024, time.June, 20)

	tests := []struct {
		name     string
		schedule []model.ScheduleEntry
		want     int
	}{
		{name: "empty schedule", schedule: nil, want: 0},
		{
			name: "one overdue installment ten days ago",
			schedule: []model.ScheduleEntry{
				entryDue(1, today.AddDate(0, 0, -10), valueobject.PaymentStatusUnpaid),
				entryDue(2, today.AddDate(0, 1, -10), valueobject.PaymentStatusUnpaid),
			},
			want: 10,
		},
		{
			name: "paid installments are ignored",
			schedule: []model.ScheduleEntry{
				entryDue(1, today.AddDate(0, -2, 0), valueobject.PaymentStatusPaid),
				entryDue(2, today.AddDate(0, -1, 0), valueobject.PaymentStatusPartial),
			},
			want: 31,
		},
		{
			name:     "due today is not overdue",
			schedule: []model.ScheduleEntry{entryDue(1, today, valueobject.PaymentStatusUnpaid)},
			want:     0,
		},
		{
			name: "earliest overdue wins regardless of order",
			schedule: []model.ScheduleEntry{
				entryDue(2, today.AddDate(0, 0, -5), valueobject.PaymentStatusUnpaid),
				entryDue(1, today.AddDate(0, 0, -35), valueobject.PaymentStatusUnpaid),
			},
			want: 35,
		},
		{
			name: "late evening due date yesterday counts one day",
			schedule: []model.ScheduleEntry{
				entryDue(1, today.Add(-time.Hour), valueobject.PaymentStatusUnpaid),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.DaysInArrears(tt.schedule, today.Add(9*time.Hour)))
		})
	}
}
