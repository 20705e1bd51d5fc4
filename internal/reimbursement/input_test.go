package reimbursement

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		miles    float64
		receipts float64
		wantKind ErrorKind
	}{
		{"Valid trip", 5, 250, 300, ""},
		{"Zero miles and receipts", 1, 0, 0, ""},
		{"Zero days", 0, 10, 10, KindInputRange},
		{"Negative days", -3, 10, 10, KindInputRange},
		{"Negative miles", 2, -0.01, 10, KindInputRange},
		{"Negative receipts", 2, 10, -5, KindInputRange},
		{"NaN miles", 2, math.NaN(), 10, KindNumericFormat},
		{"Infinite receipts", 2, 10, math.Inf(1), KindNumericFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip, metrics, err := Normalize(tt.days, tt.miles, tt.receipts)
			if tt.wantKind != "" {
				if !IsKind(err, tt.wantKind) {
					t.Errorf("Normalize() error = %v, expected kind %s", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() unexpected error = %v", err)
			}
			if trip.Days != tt.days || trip.Miles != tt.miles || trip.Receipts != tt.receipts {
				t.Errorf("Normalize() trip = %+v", trip)
			}
			if metrics.MilesPerDay != tt.miles/float64(tt.days) {
				t.Errorf("MilesPerDay = %v, expected %v", metrics.MilesPerDay, tt.miles/float64(tt.days))
			}
			if metrics.ReceiptsPerDay != tt.receipts/float64(tt.days) {
				t.Errorf("ReceiptsPerDay = %v, expected %v", metrics.ReceiptsPerDay, tt.receipts/float64(tt.days))
			}
		})
	}
}

func TestParseTrip(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Trip
		wantKind ErrorKind
	}{
		{"Valid arguments", []string{"5", "250", "300.49"}, Trip{Days: 5, Miles: 250, Receipts: 300.49}, ""},
		{"Fractional miles", []string{"3", "93.5", "0"}, Trip{Days: 3, Miles: 93.5}, ""},
		{"Surrounding whitespace", []string{" 2 ", "10 ", " 20"}, Trip{Days: 2, Miles: 10, Receipts: 20}, ""},
		{"No arguments", nil, Trip{}, KindArgumentCount},
		{"Too few arguments", []string{"1", "2"}, Trip{}, KindArgumentCount},
		{"Too many arguments", []string{"1", "2", "3", "4"}, Trip{}, KindArgumentCount},
		{"Fractional days", []string{"1.5", "2", "3"}, Trip{}, KindNumericFormat},
		{"Non-numeric miles", []string{"1", "far", "3"}, Trip{}, KindNumericFormat},
		{"Non-numeric receipts", []string{"1", "2", "$3"}, Trip{}, KindNumericFormat},
		{"NaN receipts", []string{"1", "2", "NaN"}, Trip{}, KindNumericFormat},
		{"Infinite miles", []string{"1", "+Inf", "3"}, Trip{}, KindNumericFormat},
		{"Zero days", []string{"0", "2", "3"}, Trip{}, KindInputRange},
		{"Negative receipts", []string{"1", "2", "-3"}, Trip{}, KindInputRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip, err := ParseTrip(tt.args)
			if tt.wantKind != "" {
				if KindOf(err) != tt.wantKind {
					t.Errorf("ParseTrip(%q) error = %v, expected kind %s", tt.args, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTrip(%q) unexpected error = %v", tt.args, err)
			}
			if trip != tt.expected {
				t.Errorf("ParseTrip(%q) = %+v, expected %+v", tt.args, trip, tt.expected)
			}
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	_, err := ParseTrip([]string{"x", "1", "1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "[INVALID_NUMERIC_FORMAT]") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected the strconv error to be wrapped")
	}

	wrapped := errors.Join(errors.New("context"), err)
	if !IsKind(wrapped, KindNumericFormat) {
		t.Errorf("IsKind() did not see through wrapping")
	}
	if IsKind(errors.New("plain"), KindNumericFormat) {
		t.Errorf("IsKind() matched a plain error")
	}
}
