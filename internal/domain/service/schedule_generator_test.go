package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/valueobject"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

func monthlyTerms(principal, rate string, n int) model.LoanTerms {
	return model.LoanTerms{
		Principal:                 decimal.RequireFromString(principal),
		AnnualInterestRatePercent: decimal.RequireFromString(rate),
		TermMonths:                n,
		DisbursementDate:          testutil.Date(2024, time.January, 15),
		Frequency:                 valueobject.FrequencyMonthly,
		Method:                    valueobject.MethodReducingBalance,
	}
}

func sumPrincipal(entries []model.ScheduleEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Principal)
	}
	return sum
}

func TestScheduleGenerator_ReducingBalance(t *testing.T) {
	gen := service.NewScheduleGenerator()

	schedule, err := gen.Generate(monthlyTerms("120000", "12", 12))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	first := schedule[0]
	testutil.AssertDecimalWithin(t, "10661.90", first.Total, "0.10")
	testutil.AssertDecimalEqual(t, "1200.00", first.Interest)
	testutil.AssertDecimalWithin(t, "9461.90", first.Principal, "0.10")
	assert.Equal(t, testutil.Date(2024, time.February, 15), first.DueDate)

	// Level payment holds for every installment but the last.
	for _, e := range schedule[:11] {
		testutil.AssertDecimalEqual(t, first.Total.String(), e.Total)
	}

	for _, e := range schedule {
		assert.True(t, e.Fee.IsZero())
		assert.True(t, e.Paid.IsZero())
		assert.True(t, e.Outstanding.Equal(e.Total))
		assert.True(t, valueobject.PaymentStatusUnpaid.Equal(e.Status))
		assert.True(t, e.Total.Equal(e.Principal.Add(e.Interest)))
		assert.Equal(t, int32(-2), e.Total.Exponent(), "amounts are rounded to cents")
	}
}

func TestScheduleGenerator_PrincipalSumsExactly(t *testing.T) {
	gen := service.NewScheduleGenerator()

	cases := []model.LoanTerms{
		monthlyTerms("120000", "12", 12),
		monthlyTerms("1000", "0", 3),
		monthlyTerms("55555.55", "18.5", 7),
		monthlyTerms("999.99", "36", 24),
		{
			Principal:                 decimal.NewFromInt(5000),
			AnnualInterestRatePercent: decimal.NewFromInt(20),
			TermMonths:                26,
			DisbursementDate:          testutil.Date(2024, time.March, 1),
			Frequency:                 valueobject.FrequencyBiWeekly,
		},
		{
			Principal:                 decimal.NewFromInt(3000),
			AnnualInterestRatePercent: decimal.NewFromInt(15),
			TermMonths:                30,
			DisbursementDate:          testutil.Date(2024, time.March, 1),
			Frequency:                 valueobject.FrequencyDaily,
			Method:                    valueobject.MethodFlat,
		},
	}

	for _, terms := range cases {
		t.Run(terms.Principal.String()+"@"+terms.AnnualInterestRatePercent.String(), func(t *testing.T) {
			schedule, err := gen.Generate(terms)
			require.NoError(t, err)
			testutil.AssertDecimalEqual(t, terms.Principal.String(), sumPrincipal(schedule))
		})
	}
}

func TestScheduleGenerator_InstallmentsAreMonotonic(t *testing.T) {
	gen := service.NewScheduleGenerator()
	frequencies := []valueobject.RepaymentFrequency{
		valueobject.FrequencyDaily,
		valueobject.FrequencyWeekly,
		valueobject.FrequencyBiWeekly,
		valueobject.FrequencyMonthly,
		valueobject.FrequencyQuarterly,
	}

	for _, freq := range frequencies {
		t.Run(freq.String(), func(t *testing.T) {
			terms := monthlyTerms("10000", "10", 8)
			terms.Frequency = freq
			terms.DisbursementDate = testutil.Date(2024, time.January, 31)

			schedule, err := gen.Generate(terms)
			require.NoError(t, err)
			require.Len(t, schedule, 8)

			prev := terms.DisbursementDate
			for i, e := range schedule {
				assert.Equal(t, i+1, e.InstallmentNumber)
				assert.True(t, e.DueDate.After(prev), "installment %d due %s not after %s", e.InstallmentNumber, e.DueDate, prev)
				prev = e.DueDate
			}
		})
	}
}

func TestScheduleGenerator_ZeroRate(t *testing.T) {
	schedule, err := service.NewScheduleGenerator().Generate(monthlyTerms("1200", "0", 12))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for _, e := range schedule {
		testutil.AssertDecimalEqual(t, "100", e.Principal)
		testutil.AssertDecimalEqual(t, "0", e.Interest)
		testutil.AssertDecimalEqual(t, "100", e.Total)
	}
}

func TestScheduleGenerator_ZeroRateRoundingDrift(t *testing.T) {
	schedule, err := service.NewScheduleGenerator().Generate(monthlyTerms("1000", "0", 3))
	require.NoError(t, err)

	testutil.AssertDecimalEqual(t, "333.33", schedule[0].Principal)
	testutil.AssertDecimalEqual(t, "333.33", schedule[1].Principal)
	testutil.AssertDecimalEqual(t, "333.34", schedule[2].Principal)
}

func TestScheduleGenerator_Flat(t *testing.T) {
	terms := monthlyTerms("10000", "12", 10)
	terms.Method = valueobject.MethodFlat

	schedule, err := service.NewScheduleGenerator().Generate(terms)
	require.NoError(t, err)
	require.Len(t, schedule, 10)

	for _, e := range schedule {
		testutil.AssertDecimalEqual(t, "100", e.Interest)
		testutil.AssertDecimalEqual(t, "1000", e.Principal)
		testutil.AssertDecimalEqual(t, "1100", e.Total)
	}
}

func TestScheduleGenerator_InvalidTerms(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.LoanTerms)
	}{
		{name: "zero principal", mutate: func(t *model.LoanTerms) { t.Principal = decimal.Zero }},
		{name: "negative principal", mutate: func(t *model.LoanTerms) { t.Principal = decimal.NewFromInt(-5) }},
		{name: "zero term", mutate: func(t *model.LoanTerms) { t.TermMonths = 0 }},
		{name: "term beyond maximum", mutate: func(t *model.LoanTerms) { t.TermMonths = 2_000_000 }},
		{name: "daily term beyond maximum", mutate: func(t *model.LoanTerms) {
			t.TermMonths = model.MaxTermInstallments + 1
			t.Frequency = valueobject.FrequencyDaily
		}},
		{name: "negative rate", mutate: func(t *model.LoanTerms) { t.AnnualInterestRatePercent = decimal.NewFromInt(-1) }},
		{name: "missing frequency", mutate: func(t *model.LoanTerms) { t.Frequency = valueobject.RepaymentFrequency{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := monthlyTerms("1000", "12", 12)
			tt.mutate(&terms)

			schedule, err := service.NewScheduleGenerator().Generate(terms)
			require.ErrorIs(t, err, model.ErrInvalidTerms)
			assert.Nil(t, schedule)
		})
	}
}

func TestPeriodRate(t *testing.T) {
	testutil.AssertDecimalEqual(t, "0.01", service.PeriodRate(decimal.NewFromInt(12), valueobject.FrequencyMonthly))
	testutil.AssertDecimalEqual(t, "0.03", service.PeriodRate(decimal.NewFromInt(12), valueobject.FrequencyQuarterly))
	testutil.AssertDecimalEqual(t, "0.01", service.PeriodRate(decimal.NewFromInt(52), valueobject.FrequencyWeekly))
}
