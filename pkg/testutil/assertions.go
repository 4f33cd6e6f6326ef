package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertDecimalEqual compares decimals by value, so 10.0 equals 10.00.
func AssertDecimalEqual(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// AssertDecimalWithin checks |got - want| <= tolerance.
func AssertDecimalWithin(t *testing.T, want string, got decimal.Decimal, tolerance string) {
	t.Helper()
	diff := got.Sub(decimal.RequireFromString(want)).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString(tolerance)),
		"want %s±%s, got %s", want, tolerance, got.String())
}
