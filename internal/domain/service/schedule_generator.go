package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/money"
)

// ---------------------------------------------------------------------------
// ScheduleGenerator – builds amortization schedules from loan terms
// ---------------------------------------------------------------------------

var hundred = decimal.NewFromInt(100)

// ScheduleGenerator is stateless and safe for concurrent use.
type ScheduleGenerator struct{}

// NewScheduleGenerator returns a new generator.
func NewScheduleGenerator() *ScheduleGenerator {
	return &ScheduleGenerator{}
}

// Generate computes the installment schedule for terms.
//
// Reducing balance uses the annuity payment
//
//	r       = rate / 100 / periodsPerYear
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with interest charged on the remaining balance each period. Flat charges
// P * r every period and repays P / n. All amounts are rounded to cents and
// the final installment takes the remaining principal, so principal always
// sums to P exactly. Entries carry no ID or LoanID.
func (g *ScheduleGenerator) Generate(terms model.LoanTerms) ([]model.ScheduleEntry, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	n := terms.TermMonths
	dueDates, err := terms.Frequency.DueDates(terms.DisbursementDate, n)
	if err != nil {
		return nil, fmt.Errorf("%w: due dates: %v", model.ErrInvalidTerms, err)
	}

	periodRate := PeriodRate(terms.AnnualInterestRatePercent, terms.Frequency)

	var level decimal.Decimal
	flat := terms.ResolvedMethod().Equal(valueobject.MethodFlat)
	switch {
	case flat, periodRate.IsZero():
		level = money.RoundMinor(terms.Principal.Div(decimal.NewFromInt(int64(n))))
	default:
		level = annuityPayment(terms.Principal, periodRate, n)
	}

	schedule := make([]model.ScheduleEntry, 0, n)
	remaining := terms.Principal

	for i := 1; i <= n; i++ {
		var interest, principalPart decimal.Decimal
		if flat {
			interest = money.RoundMinor(terms.Principal.Mul(periodRate))
			principalPart = level
		} else {
			interest = money.RoundMinor(remaining.Mul(periodRate))
			principalPart = level.Sub(interest)
		}

		// Last period absorbs rounding drift.
		if i == n || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		principalPart = money.NonNegative(principalPart)

		remaining = money.NonNegative(remaining.Sub(principalPart))
		total := principalPart.Add(interest)

		schedule = append(schedule, model.ScheduleEntry{
			InstallmentNumber: i,
			DueDate:           dueDates[i-1],
			Principal:         principalPart,
			Interest:          interest,
			Fee:               decimal.Zero,
			Total:             total,
			Paid:              decimal.Zero,
			Outstanding:       total,
			Status:            valueobject.PaymentStatusUnpaid,
		})
	}

	return schedule, nil
}

// PeriodRate converts an annual percentage into the per-installment fraction.
func PeriodRate(annualPercent decimal.Decimal, freq valueobject.RepaymentFrequency) decimal.Decimal {
	return annualPercent.Div(hundred).Div(decimal.NewFromInt(int64(freq.PeriodsPerYear())))
}

// annuityPayment evaluates the power term in float64 and converts back to
// decimal for monetary arithmetic.
func annuityPayment(principal, periodRate decimal.Decimal, n int) decimal.Decimal {
	r := periodRate.InexactFloat64()
	factor := math.Pow(1+r, float64(n))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)
	return money.RoundMinor(decimal.NewFromFloat(payment))
}
