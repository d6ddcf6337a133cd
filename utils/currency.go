package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupees renders an amount as "Rs. 12,345.50". The core PDF fonts have
// no rupee glyph, hence the abbreviation.
func FormatRupees(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	formatted := amount.Abs().StringFixed(2)

	parts := strings.SplitN(formatted, ".", 2)
	integerPart := parts[0]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := "Rs. " + strings.Join(groups, ",") + "." + parts[1]
	if negative {
		return "-" + out
	}
	return out
}
