package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewCurrency(t *testing.T) {
	valid := []string{"KES", "UGX", "TZS", "USD"}
	for _, code := range valid {
		c, err := NewCurrency(code)
		if err != nil {
			t.Errorf("NewCurrency(%q) unexpected error: %v", code, err)
		}
		if c.Code() != code {
			t.Errorf("NewCurrency(%q).Code() = %q, want %q", code, c.Code(), code)
		}
	}

	invalid := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"lowercase", "kes"},
		{"too short", "KE"},
		{"too long", "KESH"},
		{"digits", "KE1"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCurrency(tt.code); err == nil {
				t.Errorf("NewCurrency(%q) expected error, got nil", tt.code)
			}
		})
	}
}

func TestMustCurrency_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCurrency(\"bad\") did not panic")
		}
	}()
	MustCurrency("bad")
}

func TestRoundMinor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"-2.555", "-2.56"},
		{"9461.8466", "9461.85"},
	}
	for _, tt := range tests {
		got := RoundMinor(decimal.RequireFromString(tt.in))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("RoundMinor(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNonNegative(t *testing.T) {
	if !NonNegative(decimal.NewFromInt(-50)).IsZero() {
		t.Error("NonNegative(-50) should be zero")
	}
	if !NonNegative(decimal.NewFromInt(50)).Equal(decimal.NewFromInt(50)) {
		t.Error("NonNegative(50) should be 50")
	}
}
