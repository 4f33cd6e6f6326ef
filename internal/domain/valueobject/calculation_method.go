package valueobject

import (
	"fmt"
	"strings"
)

// CalculationMethod selects how interest accrues across the schedule.
type CalculationMethod struct {
	value string
}

const (
	methodReducingBalance = "reducing_balance"
	methodFlat            = "flat"
)

var (
	MethodReducingBalance = CalculationMethod{value: methodReducingBalance}
	MethodFlat            = CalculationMethod{value: methodFlat}
)

var validMethods = map[string]CalculationMethod{
	methodReducingBalance: MethodReducingBalance,
	"declining_balance":   MethodReducingBalance,
	methodFlat:            MethodFlat,
	"flat_rate":           MethodFlat,
}

// NewCalculationMethod parses a stored method. An empty value yields
// reducing balance.
func NewCalculationMethod(s string) (CalculationMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MethodReducingBalance, nil
	}
	v, ok := validMethods[s]
	if !ok {
		return CalculationMethod{}, fmt.Errorf("invalid calculation method: %q", s)
	}
	return v, nil
}

// String returns the canonical representation.
func (m CalculationMethod) String() string { return m.value }

// IsZero returns true if the method has not been initialised.
func (m CalculationMethod) IsZero() bool { return m.value == "" }

// Equal returns true when both methods carry the same value.
func (m CalculationMethod) Equal(other CalculationMethod) bool { return m.value == other.value }
