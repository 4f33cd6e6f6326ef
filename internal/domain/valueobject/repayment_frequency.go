package valueobject

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// RepaymentFrequency is how often installments fall due.
type RepaymentFrequency struct {
	value string
}

const (
	frequencyDaily     = "daily"
	frequencyWeekly    = "weekly"
	frequencyBiWeekly  = "bi_weekly"
	frequencyMonthly   = "monthly"
	frequencyQuarterly = "quarterly"
)

var (
	FrequencyDaily     = RepaymentFrequency{value: frequencyDaily}
	FrequencyWeekly    = RepaymentFrequency{value: frequencyWeekly}
	FrequencyBiWeekly  = RepaymentFrequency{value: frequencyBiWeekly}
	FrequencyMonthly   = RepaymentFrequency{value: frequencyMonthly}
	FrequencyQuarterly = RepaymentFrequency{value: frequencyQuarterly}
)

var validFrequencies = map[string]RepaymentFrequency{
	frequencyDaily:     FrequencyDaily,
	frequencyWeekly:    FrequencyWeekly,
	frequencyBiWeekly:  FrequencyBiWeekly,
	"bi-weekly":        FrequencyBiWeekly,
	"biweekly":         FrequencyBiWeekly,
	frequencyMonthly:   FrequencyMonthly,
	frequencyQuarterly: FrequencyQuarterly,
}

// NewRepaymentFrequency parses a stored product frequency. Matching is
// case-insensitive and accepts the hyphenated bi-weekly spelling.
func NewRepaymentFrequency(s string) (RepaymentFrequency, error) {
	v, ok := validFrequencies[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return RepaymentFrequency{}, fmt.Errorf("invalid repayment frequency: %q", s)
	}
	return v, nil
}

// String returns the canonical representation.
func (f RepaymentFrequency) String() string { return f.value }

// IsZero returns true if the frequency has not been initialised.
func (f RepaymentFrequency) IsZero() bool { return f.value == "" }

// Equal returns true when both frequencies carry the same value.
func (f RepaymentFrequency) Equal(other RepaymentFrequency) bool { return f.value == other.value }

// PeriodsPerYear is the divisor turning an annual rate into a period rate.
func (f RepaymentFrequency) PeriodsPerYear() int {
	switch f.value {
	case frequencyDaily:
		return 365
	case frequencyWeekly:
		return 52
	case frequencyBiWeekly:
		return 26
	case frequencyQuarterly:
		return 4
	default:
		return 12
	}
}

// NominalPeriodDays is the expected gap between consecutive due dates.
func (f RepaymentFrequency) NominalPeriodDays() int {
	switch f.value {
	case frequencyDaily:
		return 1
	case frequencyWeekly:
		return 7
	case frequencyBiWeekly:
		return 14
	case frequencyQuarterly:
		return 90
	default:
		return 30
	}
}

// DueDates returns the first n due dates strictly after start. Month-based
// frequencies keep the start's day of month, falling back to the last day
// of shorter months (Jan 31 -> Feb 28 -> Mar 31).
func (f RepaymentFrequency) DueDates(start time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, nil
	}
	if f.IsZero() {
		return nil, fmt.Errorf("repayment frequency is not set")
	}

	opt := rrule.ROption{
		Dtstart:  start,
		Interval: 1,
		// Dtstart itself is the first occurrence and is dropped below.
		Count: n + 1,
	}

	switch f.value {
	case frequencyDaily:
		opt.Freq = rrule.DAILY
	case frequencyWeekly:
		opt.Freq = rrule.WEEKLY
	case frequencyBiWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
	case frequencyMonthly, frequencyQuarterly:
		opt.Freq = rrule.MONTHLY
		if f.value == frequencyQuarterly {
			opt.Interval = 3
		}
		if day := start.Day(); day > 28 {
			for d := 28; d <= day; d++ {
				opt.Bymonthday = append(opt.Bymonthday, d)
			}
			opt.Bysetpos = []int{-1}
		}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build %s recurrence: %w", f.value, err)
	}

	dates := make([]time.Time, 0, n)
	for _, d := range rule.All() {
		if !d.After(start) {
			continue
		}
		dates = append(dates, d)
		if len(dates) == n {
			break
		}
	}
	if len(dates) < n {
		return nil, fmt.Errorf("%s recurrence produced %d of %d due dates", f.value, len(dates), n)
	}
	return dates, nil
}
