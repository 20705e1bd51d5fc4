// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
	"strconv"

	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/shopspring/decimal"
)

// Cents converts a value to an exact two-place decimal. Rounding is done on
// the exact binary value with ties to even, the same way "%.2f" formats it,
// so the decimal always prints identically to the float.
func Cents(val float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(val, 'f', constants.CurrencyPlaces, 64))
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
