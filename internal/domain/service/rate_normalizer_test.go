package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

func TestRateNormalizer_Normalize(t *testing.T) {
	n := service.NewRateNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "0.15", want: "15"},
		{raw: "1500", want: "15"},
		{raw: "15", want: "15"},
		{raw: "0.0067", want: "0.67"},
		{raw: "0.01", want: "1"},
		{raw: "0.12", want: "12"},
		{raw: "1", want: "100"},
		{raw: "1200", want: "12"},
		{raw: "100", want: "100"},
		{raw: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			testutil.AssertDecimalEqual(t, tt.want, n.Normalize(decimal.RequireFromString(tt.raw)))
		})
	}
}

func TestRateNormalizer_FixedPointAboveOne(t *testing.T) {
	n := service.NewRateNormalizer()

	for _, raw := range []string{"1.0001", "1.5", "7", "12.5", "36", "99.99", "100"} {
		x := decimal.RequireFromString(raw)
		assert.True(t, x.Equal(n.Normalize(x)), "normalize(%s) should be %s", raw, raw)
	}
}

func TestRateNormalizer_NotIdempotentInGeneral(t *testing.T) {
	n := service.NewRateNormalizer()

	once := n.Normalize(decimal.RequireFromString("0.005"))
	twice := n.Normalize(once)

	testutil.AssertDecimalEqual(t, "0.5", once)
	testutil.AssertDecimalEqual(t, "50", twice)
}

func TestRateNormalizer_IsAmbiguous(t *testing.T) {
	n := service.NewRateNormalizer()

	assert.True(t, n.IsAmbiguous(decimal.RequireFromString("1.00")))
	assert.False(t, n.IsAmbiguous(decimal.RequireFromString("0.99")))
	assert.False(t, n.IsAmbiguous(decimal.NewFromInt(12)))
}

func TestRateNormalizer_DriftsOnRerun(t *testing.T) {
	n := service.NewRateNormalizer()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "0.0067", want: true},
		{raw: "0.005", want: true},
		{raw: "15000", want: true},
		{raw: "0.12", want: false},
		{raw: "1200", want: false},
		{raw: "12", want: false},
		{raw: "0.67", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, n.DriftsOnRerun(decimal.RequireFromString(tt.raw)))
		})
	}
}
