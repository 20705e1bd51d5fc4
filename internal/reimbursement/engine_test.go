package reimbursement

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestCalculateScenarios(t *testing.T) {
	engine := NewDefault(zap.NewNop())

	t.Run("Tiny receipts on a single-day trip", func(t *testing.T) {
		result, err := engine.Calculate(1, 50, 10)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		b := result.Breakdown
		if b.Receipts != 0 || !b.ReceiptsIgnored {
			t.Errorf("expected ignored receipts, got %v (ignored=%v)", b.Receipts, b.ReceiptsIgnored)
		}
		if b.BasePerDiem != 80 {
			t.Errorf("expected base 120 less the 40 penalty, got %v", b.BasePerDiem)
		}
		if math.Abs(b.Mileage-29) > 1e-9 {
			t.Errorf("expected mileage 29, got %v", b.Mileage)
		}
		if result.String() != "109.00" {
			t.Errorf("Calculate() = %s, expected 109.00", result.String())
		}
	})

	t.Run("Five-day sweet spot trip", func(t *testing.T) {
		result, err := engine.Calculate(5, 900, 300)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		b := result.Breakdown
		if b.Zone != ZoneSweetSpot {
			t.Errorf("expected SweetSpot, got %v", b.Zone)
		}
		if b.BasePerDiem != 550 {
			t.Errorf("expected base 550, got %v", b.BasePerDiem)
		}
		if math.Abs(b.Mileage-378) > 1e-9 {
			t.Errorf("expected mileage 378, got %v", b.Mileage)
		}
		if math.Abs(b.Receipts-264) > 1e-9 {
			t.Errorf("expected receipts 264, got %v", b.Receipts)
		}
		if result.String() != "1192.00" {
			t.Errorf("Calculate() = %s, expected 1192.00", result.String())
		}
	})

	t.Run("Rounding-digit bonus", func(t *testing.T) {
		bonus, err := engine.Calculate(3, 300, 199.49)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		plain, err := engine.Calculate(3, 300, 199.50)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		// 8 bonus less the 0.01 receipt difference at the 0.50 tier rate.
		diff := bonus.Breakdown.Receipts - plain.Breakdown.Receipts
		if math.Abs(diff-7.995) > 1e-9 {
			t.Errorf("expected receipt component difference of 7.995, got %v", diff)
		}
	})

	t.Run("Zero days rejected", func(t *testing.T) {
		result, err := engine.Calculate(0, 100, 100)
		if err == nil {
			t.Fatalf("Calculate() expected error, got %s", result.String())
		}
		if !IsKind(err, KindInputRange) {
			t.Errorf("expected %s, got %v", KindInputRange, err)
		}
		if !result.Amount.IsZero() {
			t.Errorf("expected no amount on error, got %s", result.String())
		}
	})
}

var propertyDays = []int{1, 2, 3, 4, 5, 6, 7, 8, 10, 12, 14}
var propertyMiles = []float64{0, 12.5, 80, 199, 475, 900, 1250, 3000, 14000}
var propertyReceipts = []float64{0, 0.01, 10.99, 29.99, 49.49, 50, 99.99, 199.49, 523.4, 1000, 1499.99, 1500, 1800.25, 2500, 4000}

func TestResultIsNonNegativeCents(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	for _, days := range propertyDays {
		for _, miles := range propertyMiles {
			for _, receipts := range propertyReceipts {
				result, err := engine.Calculate(days, miles, receipts)
				if err != nil {
					t.Fatalf("Calculate(%d, %v, %v) error = %v", days, miles, receipts, err)
				}
				if result.Amount.IsNegative() {
					t.Errorf("Calculate(%d, %v, %v) = %s is negative", days, miles, receipts, result.String())
				}
				if !result.Amount.Equal(result.Amount.Round(2)) {
					t.Errorf("Calculate(%d, %v, %v) = %s is not whole cents", days, miles, receipts, result.Amount)
				}
			}
		}
	}
}

func TestNearZeroReceiptsContributeNothing(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	for _, days := range propertyDays {
		for _, miles := range propertyMiles {
			for _, receipts := range []float64{0, 0.01, 10.99, 29.99, 49.49, 49.99} {
				result, err := engine.Calculate(days, miles, receipts)
				if err != nil {
					t.Fatalf("Calculate() error = %v", err)
				}
				if result.Breakdown.Receipts != 0 {
					t.Errorf("Calculate(%d, %v, %v) receipt component = %v, expected 0",
						days, miles, receipts, result.Breakdown.Receipts)
				}
			}
		}
	}
}

func TestHighReceiptCap(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	for _, days := range propertyDays {
		for _, miles := range propertyMiles {
			for _, receipts := range []float64{1500, 1500.5, 1800.25, 2500, 4000} {
				result, err := engine.Calculate(days, miles, receipts)
				if err != nil {
					t.Fatalf("Calculate() error = %v", err)
				}
				if result.Float() > receipts*1.5+0.005 {
					t.Errorf("Calculate(%d, %v, %v) = %s exceeds 1.5x receipts", days, miles, receipts, result.String())
				}
			}
		}
	}
}

func TestMileageComponentIncreases(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	previous := -1.0
	for miles := 0.0; miles <= 2000; miles += 25 {
		result, err := engine.Calculate(3, miles, 200)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if result.Breakdown.Mileage <= previous {
			t.Fatalf("mileage at %v = %v did not increase from %v", miles, result.Breakdown.Mileage, previous)
		}
		previous = result.Breakdown.Mileage
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	first, err := engine.Calculate(6, 1200, 2000)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	second, err := engine.Calculate(6, 1200, 2000)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !first.Amount.Equal(second.Amount) {
		t.Errorf("amounts differ: %s vs %s", first.String(), second.String())
	}
	if diff := cmp.Diff(first.Breakdown, second.Breakdown); diff != "" {
		t.Errorf("breakdown mismatch (-first +second):\n%s", diff)
	}
}

func TestEvaluateConcurrently(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	expected, err := engine.Calculate(7, 700, 1000)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, _ := engine.Calculate(7, 700, 1000)
			results[i] = r.String()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != expected.String() {
			t.Errorf("worker %d got %s, expected %s", i, got, expected.String())
		}
	}
}

func TestBreakdownNotes(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	result, err := engine.Calculate(1, 1200, 1500)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	expected := []string{
		"calendar effect 4 -5.00",
		"single-day extreme receipts override 300.00",
	}
	if diff := cmp.Diff(expected, result.Breakdown.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	if result.Breakdown.Zone != ZoneExtreme {
		t.Errorf("expected Extreme, got %v", result.Breakdown.Zone)
	}
}

func TestCapNote(t *testing.T) {
	engine := NewDefault(zap.NewNop())
	result, err := engine.Calculate(14, 5000, 210)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if result.Breakdown.CapLimit != 840 {
		t.Errorf("expected cap limit 840, got %v", result.Breakdown.CapLimit)
	}
	if result.Breakdown.Subtotal <= 840 {
		t.Errorf("expected uncapped subtotal above 840, got %v", result.Breakdown.Subtotal)
	}
}

func TestNewRejectsInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.Mileage = nil
	if _, err := New(zap.NewNop(), rules); err == nil {
		t.Fatal("New() expected error for empty mileage schedule")
	}
}

func TestEngineCopiesRules(t *testing.T) {
	rules := DefaultRules()
	engine, err := New(nil, rules)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rules.Mileage[0].Rate = 10

	result, err := engine.Calculate(1, 50, 10)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if result.String() != "109.00" {
		t.Errorf("engine picked up caller's change: %s", result.String())
	}

	copied := engine.Rules()
	copied.Mileage[0].Rate = 10
	if engine.Rules().Mileage[0].Rate != 0.58 {
		t.Errorf("Rules() exposed the engine's table")
	}
}

func TestCustomRulesAreUsed(t *testing.T) {
	rules := DefaultRules()
	rules.PerDiem.SingleDay = 200

	engine, err := New(zap.NewNop(), rules)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := engine.Calculate(1, 50, 10)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if result.String() != "189.00" {
		t.Errorf("Calculate() = %s, expected 189.00", result.String())
	}
}
