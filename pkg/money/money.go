// Package money formats and parses euro amounts held as decimal values.
// Separators and the currency symbol only exist at the formatting boundary.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is appended to every formatted amount.
const Symbol = "€"

// Round rounds to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsWholeCents reports whether d has no fraction of a cent. Amounts are
// stored with two decimals, so anything finer would be rounded on write.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// Format renders d with exactly two fraction digits, a comma separator and a
// trailing currency symbol: 12.5 -> "12,50€".
func Format(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + Symbol
}

// FormatBlankZero is Format, except that an exact zero renders as "".
func FormatBlankZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return Format(d)
}

// FormatPercent renders a VAT rate without superfluous zeros: 10 -> "10%", 5.5 -> "5,5%".
func FormatPercent(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1) + "%"
}

// Parse accepts "12.50", "12,50" and an optional trailing currency symbol.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), Symbol))
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return d, nil
}
