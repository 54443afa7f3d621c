package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		code     string
		expected string
	}{
		{
			name:     "negative USD keeps sign before symbol",
			amount:   decimal.NewFromFloat(-150.5),
			code:     "USD",
			expected: "-$150.50",
		},
		{
			name:     "INR grouped per Indian convention",
			amount:   decimal.NewFromInt(1234567),
			code:     "INR",
			expected: "₹12,34,567.00",
		},
		{
			name:     "small amount has no grouping",
			amount:   decimal.NewFromFloat(999.9),
			code:     "INR",
			expected: "₹999.90",
		},
		{
			name:     "four digits get one group",
			amount:   decimal.NewFromInt(1000),
			code:     "INR",
			expected: "₹1,000.00",
		},
		{
			name:     "crore-scale grouping",
			amount:   decimal.NewFromInt(123456789),
			code:     "INR",
			expected: "₹12,34,56,789.00",
		},
		{
			name:     "unknown code falls back to raw code",
			amount:   decimal.NewFromInt(500),
			code:     "XTS",
			expected: "XTS500.00",
		},
		{
			name:     "two-letter prefix symbols",
			amount:   decimal.NewFromInt(75),
			code:     "AUD",
			expected: "A$75.00",
		},
		{
			name:     "zero",
			amount:   decimal.Zero,
			code:     "USD",
			expected: "$0.00",
		},
		{
			name:     "rounds to two decimals",
			amount:   decimal.NewFromFloat(10.005),
			code:     "USD",
			expected: "$10.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.amount, tt.code); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	amount := decimal.NewFromFloat(4521.75)
	first := Format(amount, "INR")
	for i := 0; i < 5; i++ {
		if got := Format(amount, "INR"); got != first {
			t.Fatalf("formatting is not deterministic: %q != %q", got, first)
		}
	}
}

func TestSymbolFor(t *testing.T) {
	if got := SymbolFor("INR"); got != "₹" {
		t.Errorf("expected ₹, got %q", got)
	}
	if got := SymbolFor("usd"); got != "$" {
		t.Errorf("expected case-insensitive lookup, got %q", got)
	}
	if got := SymbolFor("BTC"); got != "BTC" {
		t.Errorf("expected fallback to raw code, got %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected decimal.Decimal
	}{
		{"₹12,34,567.00", decimal.NewFromInt(1234567)},
		{"$150.50", decimal.NewFromFloat(150.5)},
		{"-$150.50", decimal.NewFromFloat(-150.5)},
		{" 1,000 ", decimal.NewFromInt(1000)},
		{"garbage", decimal.Zero},
		{"", decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseAmount(tt.input); !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
