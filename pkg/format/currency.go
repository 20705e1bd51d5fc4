// Package format renders monetary amounts for people.
package format

import (
	"strings"

	"github.com/iwvelando/reimburse/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands
// separators (e.g., "-$1,234.56"). The amount is rounded to cents first.
func Currency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + group(amount.Abs().StringFixed(2))
	}
	return "$" + group(amount.StringFixed(2))
}

// CurrencyFloat is Currency for a float64 amount, rounded to cents the same
// way reimbursement totals are.
func CurrencyFloat(amount float64) string {
	return Currency(mathutil.Cents(amount))
}

// group inserts thousands separators into a non-negative fixed-point string.
func group(fixed string) string {
	intPart, decPart, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		if decPart == "" {
			return intPart
		}
		return intPart + "." + decPart
	}

	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	if decPart != "" {
		builder.WriteByte('.')
		builder.WriteString(decPart)
	}
	return builder.String()
}
