// Package money provides currency codes and the rounding rules shared by
// the lending engine.
package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// MinorUnits is the number of decimal places every posted amount is rounded to.
const MinorUnits int32 = 2

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string { return c.code }

// String returns the currency code.
func (c Currency) String() string { return c.code }

// IsZero reports whether the currency was never set.
func (c Currency) IsZero() bool { return c.code == "" }

// Currencies the microfinance tenants operate in.
var (
	KES = MustCurrency("KES")
	UGX = MustCurrency("UGX")
	TZS = MustCurrency("TZS")
	USD = MustCurrency("USD")
)

// RoundMinor rounds d half away from zero to MinorUnits places.
func RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnits)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
