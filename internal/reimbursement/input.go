package reimbursement

import (
	"math"
	"strconv"
	"strings"
)

// ArgumentCount is the number of positional arguments a trip is built from.
const ArgumentCount = 3

// Trip is one validated reimbursement request.
type Trip struct {
	Days     int     `json:"days"`
	Miles    float64 `json:"miles"`
	Receipts float64 `json:"receipts"`
}

// Metrics are the per-day ratios derived from a Trip.
type Metrics struct {
	MilesPerDay    float64 `json:"milesPerDay"`
	ReceiptsPerDay float64 `json:"receiptsPerDay"`
}

// Metrics derives the per-day ratios. Days is positive for any Trip returned
// by Normalize.
func (t Trip) Metrics() Metrics {
	return Metrics{
		MilesPerDay:    t.Miles / float64(t.Days),
		ReceiptsPerDay: t.Receipts / float64(t.Days),
	}
}

// Normalize validates raw inputs and derives the trip metrics.
func Normalize(days int, miles, receipts float64) (Trip, Metrics, error) {
	if err := checkFinite("miles", miles); err != nil {
		return Trip{}, Metrics{}, err
	}
	if err := checkFinite("receipts", receipts); err != nil {
		return Trip{}, Metrics{}, err
	}
	if days <= 0 {
		return Trip{}, Metrics{}, newError(KindInputRange, nil, "days must be positive, got %d", days)
	}
	if miles < 0 {
		return Trip{}, Metrics{}, newError(KindInputRange, nil, "miles must not be negative, got %v", miles)
	}
	if receipts < 0 {
		return Trip{}, Metrics{}, newError(KindInputRange, nil, "receipts must not be negative, got %v", receipts)
	}

	trip := Trip{Days: days, Miles: miles, Receipts: receipts}
	return trip, trip.Metrics(), nil
}

// ParseTrip parses the positional arguments days, miles and receipts, in that
// order, and validates them.
func ParseTrip(args []string) (Trip, error) {
	if err := CheckArgumentCount(args); err != nil {
		return Trip{}, err
	}

	days, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return Trip{}, newError(KindNumericFormat, err, "days %q is not an integer", args[0])
	}
	miles, err := parseReal("miles", args[1])
	if err != nil {
		return Trip{}, err
	}
	receipts, err := parseReal("receipts", args[2])
	if err != nil {
		return Trip{}, err
	}

	trip, _, err := Normalize(days, miles, receipts)
	return trip, err
}

// CheckArgumentCount returns a KindArgumentCount error unless args holds
// exactly ArgumentCount values.
func CheckArgumentCount(args []string) error {
	if len(args) != ArgumentCount {
		return newError(KindArgumentCount, nil,
			"expected %d arguments <days> <miles> <receipts>, got %d", ArgumentCount, len(args))
	}
	return nil
}

func parseReal(name, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, newError(KindNumericFormat, err, "%s %q is not a number", name, raw)
	}
	if err := checkFinite(name, value); err != nil {
		return 0, err
	}
	return value, nil
}

func checkFinite(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return newError(KindNumericFormat, nil, "%s must be a finite number, got %v", name, value)
	}
	return nil
}
