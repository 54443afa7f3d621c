// Package currency renders monetary amounts for display. Formatting is pure
// and never fails; unknown currency codes degrade to the raw code instead of
// a symbol.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
}

// SymbolFor returns the display symbol for a currency code, falling back to
// the code itself when no symbol is known.
func SymbolFor(code string) string {
	if s, ok := symbols[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return s
	}
	return code
}

// Format renders an amount with its currency symbol, two fixed decimals and
// Indian-convention digit grouping. A minus sign precedes the symbol.
func Format(amount decimal.Decimal, code string) string {
	var b strings.Builder

	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(SymbolFor(code))

	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	b.WriteString(groupIndian(intPart))
	b.WriteByte('.')
	b.WriteString(fracPart)

	return b.String()
}

// groupIndian inserts commas per the en-IN convention: the last three digits
// form one group, every group before it has two digits (12,34,567).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)

	return strings.Join(groups, ",")
}

// ParseAmount strips currency symbols, grouping commas and spaces from a
// user-entered string. Unparseable input yields zero.
func ParseAmount(value string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '₹', '$', '€', '£', '¥', ',', ' ':
			return -1
		}
		return r
	}, value)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
