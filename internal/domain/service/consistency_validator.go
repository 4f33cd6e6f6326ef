package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
)

// ---------------------------------------------------------------------------
// ConsistencyValidator – checks a stored schedule against the loan terms
// ---------------------------------------------------------------------------

// Inconsistency names the first check a schedule failed.
type Inconsistency string

const (
	Consistent           Inconsistency = ""
	InconsistentEmpty    Inconsistency = "empty_schedule"
	InconsistentSpacing  Inconsistency = "due_date_spacing"
	InconsistentInterest Inconsistency = "interest_ceiling"
)

const (
	spacingToleranceDays  = 1
	interestCeilingFactor = 3
)

var monthsPerYear = decimal.NewFromInt(12)

// ConsistencyValidator decides whether a stored schedule still matches
// what the loan's parameters would generate.
type ConsistencyValidator struct{}

// NewConsistencyValidator returns a new validator.
func NewConsistencyValidator() *ConsistencyValidator {
	return &ConsistencyValidator{}
}

// IsConsistent reports whether schedule passes every check.
func (v *ConsistencyValidator) IsConsistent(
	schedule []model.ScheduleEntry,
	terms model.LoanTerms,
	normalizedRate decimal.Decimal,
) bool {
	return v.Check(schedule, terms, normalizedRate) == Consistent
}

// Check runs the checks in order and returns the first failure:
//  1. the schedule is non-empty;
//  2. the first two installments are one nominal period apart, +/- 1 day;
//  3. total interest <= principal * rate/100 * termMonths/12 * 3.
func (v *ConsistencyValidator) Check(
	schedule []model.ScheduleEntry,
	terms model.LoanTerms,
	normalizedRate decimal.Decimal,
) Inconsistency {
	if len(schedule) == 0 {
		return InconsistentEmpty
	}

	ordered := sortedByInstallment(schedule)

	if len(ordered) >= 2 {
		gap := model.DaysBetween(ordered[0].DueDate, ordered[1].DueDate)
		diff := gap - terms.Frequency.NominalPeriodDays()
		if diff < -spacingToleranceDays || diff > spacingToleranceDays {
			return InconsistentSpacing
		}
	}

	totalInterest := decimal.Zero
	for _, e := range ordered {
		totalInterest = totalInterest.Add(e.Interest)
	}
	ceiling := terms.Principal.
		Mul(normalizedRate.Div(hundred)).
		Mul(decimal.NewFromInt(int64(terms.TermMonths)).Div(monthsPerYear)).
		Mul(decimal.NewFromInt(interestCeilingFactor))
	if totalInterest.GreaterThan(ceiling) {
		return InconsistentInterest
	}

	return Consistent
}

func sortedByInstallment(schedule []model.ScheduleEntry) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, len(schedule))
	copy(out, schedule)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InstallmentNumber < out[j].InstallmentNumber
	})
	return out
}
