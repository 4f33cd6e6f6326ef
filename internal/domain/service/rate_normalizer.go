package service

import "github.com/shopspring/decimal"

// ---------------------------------------------------------------------------
// RateNormalizer – canonicalises stored interest rates to annual percent
// ---------------------------------------------------------------------------

var (
	smallFractionCeiling = decimal.RequireFromString("0.01")
	fractionCeiling      = decimal.NewFromInt(1)
	percentCeiling       = decimal.NewFromInt(100)
)

// RateNormalizer converts rates stored as fractions or mis-scaled percentages
// into a percentage. It never substitutes a product default.
type RateNormalizer struct{}

// NewRateNormalizer returns a new normalizer.
func NewRateNormalizer() *RateNormalizer {
	return &RateNormalizer{}
}

// Normalize applies the heuristic:
//
//	raw <= 0.01       -> raw * 100  (0.0067 -> 0.67)
//	0.01 < raw <= 1   -> raw * 100  (0.12   -> 12)
//	raw > 100         -> raw / 100  (1200   -> 12)
//	otherwise         -> raw
//
// Values in (1, 100] are fixed points.
func (n *RateNormalizer) Normalize(raw decimal.Decimal) decimal.Decimal {
	switch {
	case raw.LessThanOrEqual(smallFractionCeiling):
		return raw.Mul(percentCeiling)
	case raw.LessThanOrEqual(fractionCeiling):
		return raw.Mul(percentCeiling)
	case raw.GreaterThan(percentCeiling):
		return raw.Div(percentCeiling)
	default:
		return raw
	}
}

// IsAmbiguous reports a raw value of exactly 1, which reads as either 1% or
// 100%. Normalize treats it as 100%.
func (n *RateNormalizer) IsAmbiguous(raw decimal.Decimal) bool {
	return raw.Equal(fractionCeiling)
}

// DriftsOnRerun reports whether the normalized form of raw would itself be
// rescaled by another Normalize call, so persisting it changes the rate again
// on the next harmonization (0.0067 -> 0.67 -> 67).
func (n *RateNormalizer) DriftsOnRerun(raw decimal.Decimal) bool {
	once := n.Normalize(raw)
	return !once.Equal(raw) && !n.Normalize(once).Equal(once)
}
