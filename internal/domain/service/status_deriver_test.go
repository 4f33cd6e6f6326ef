package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

func TestStatusDeriver_Derive(t *testing.T) {
	d := service.NewStatusDeriver()
	today := testutil.Date(2024, time.June, 20)

	overdue := flatSchedule(3, "1000")
	overdue[0].DueDate = today.AddDate(0, 0, -10)
	overdue[1].DueDate = today.AddDate(0, 1, -10)
	overdue[2].DueDate = today.AddDate(0, 2, -10)

	current := flatSchedule(3, "1000")
	for i := range current {
		current[i].DueDate = today.AddDate(0, i+1, 0)
	}

	snap := func(raw valueobject.LoanStatus, outstanding, paid string) service.LoanSnapshot {
		return service.LoanSnapshot{
			RawStatus:          raw,
			Principal:          decimal.NewFromInt(2800),
			OutstandingBalance: decimal.RequireFromString(outstanding),
			TotalPaid:          decimal.RequireFromString(paid),
		}
	}

	t.Run("negative balance is overpaid even with overdue installments", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatusDisbursed, "-50", "0"), overdue, today)

		assert.True(t, valueobject.LoanStatusOverpaid.Equal(view.Status))
		testutil.AssertDecimalEqual(t, "50", view.OverpaidAmount)
		assert.Zero(t, view.DaysInArrears)
	})

	t.Run("paid beyond principal is overpaid", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatusActive, "0", "3200"), current, today)

		assert.True(t, valueobject.LoanStatusOverpaid.Equal(view.Status))
		testutil.AssertDecimalEqual(t, "400", view.OverpaidAmount)
	})

	t.Run("paid beyond principal within schedule total is still overpaid", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatusDisbursed, "100", "2900"), current, today)

		assert.True(t, valueobject.LoanStatusOverpaid.Equal(view.Status))
		testutil.AssertDecimalEqual(t, "100", view.OverpaidAmount)
		assert.Zero(t, view.DaysInArrears)
	})

	t.Run("paid exactly the principal is not overpaid", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatusDisbursed, "200", "2800"), current, today)

		assert.True(t, valueobject.LoanStatusActive.Equal(view.Status))
	})

	t.Run("larger of negative balance and excess payment wins", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatusActive, "-30", "2850"), nil, today)

		assert.True(t, valueobject.LoanStatusOverpaid.Equal(view.Status))
		testutil.AssertDecimalEqual(t, "50", view.OverpaidAmount)
	})

	t.Run("overdue unpaid installment is in arrears", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatusDisbursed, "3000", "0"), overdue, today)

		assert.True(t, valueobject.LoanStatusInArrears.Equal(view.Status))
		assert.Equal(t, 10, view.DaysInArrears)
	})

	t.Run("disbursed normalizes to active", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatusDisbursed, "3000", "0"), current, today)

		assert.True(t, valueobject.LoanStatusActive.Equal(view.Status))
	})

	t.Run("other statuses pass through", func(t *testing.T) {
		for _, raw := range []string{"closed", "rejected", "withdrawn", "pending", "restructured"} {
			view := d.Derive(snap(valueobject.ParseLoanStatus(raw), "0", "0"), current, today)
			assert.Equal(t, raw, view.Status.String())
		}
	})

	t.Run("empty status is unknown", func(t *testing.T) {
		view := d.Derive(snap(valueobject.LoanStatus{}, "0", "0"), current, today)

		assert.True(t, valueobject.LoanStatusUnknown.Equal(view.Status))
	})
}

func TestSnapshotOf(t *testing.T) {
	loan := model.ReconstructLoan(model.LoanRecord{
		ID:                 testutil.TestLoanID1,
		Principal:          decimal.NewFromInt(1000),
		OutstandingBalance: decimal.NewFromInt(400),
		Status:             valueobject.LoanStatusDisbursed,
	})

	snap := service.SnapshotOf(loan, decimal.NewFromInt(600))

	assert.True(t, valueobject.LoanStatusDisbursed.Equal(snap.RawStatus))
	testutil.AssertDecimalEqual(t, "1000", snap.Principal)
	testutil.AssertDecimalEqual(t, "400", snap.OutstandingBalance)
	testutil.AssertDecimalEqual(t, "600", snap.TotalPaid)
}
