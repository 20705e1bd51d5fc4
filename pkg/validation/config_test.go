package validation

import (
	"strings"
	"testing"
)

func TestValidateDayRanges(t *testing.T) {
	tests := []struct {
		name         string
		ranges       []DayRangeConfig
		expectedWarn int
	}{
		{
			name:         "Disjoint ranges",
			ranges:       []DayRangeConfig{{5, 5}, {6, 6}, {7, 0}},
			expectedWarn: 0,
		},
		{
			name:         "Open range shadows later rule",
			ranges:       []DayRangeConfig{{5, 0}, {6, 6}},
			expectedWarn: 1,
		},
		{
			name:         "Bounded range shadows narrower rule",
			ranges:       []DayRangeConfig{{5, 8}, {6, 7}},
			expectedWarn: 1,
		},
		{
			name:         "Bounded range does not shadow open rule",
			ranges:       []DayRangeConfig{{5, 8}, {6, 0}},
			expectedWarn: 0,
		},
		{
			name:         "Later narrower range before earlier",
			ranges:       []DayRangeConfig{{6, 6}, {5, 0}},
			expectedWarn: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateDayRanges(tt.ranges)
			if len(warnings) != tt.expectedWarn {
				t.Errorf("ValidateDayRanges() = %v, expected %d warnings", warnings, tt.expectedWarn)
			}
		})
	}
}

func TestValidateAll(t *testing.T) {
	clean := RuleValidator{
		DigitBonusCents:    []int{49, 99},
		CalendarModulus:    7,
		CalendarRemainders: []int{1, 4},
		LowSpendPenalties:  []RangeConfig{{Days: 1, From: 0, To: 30}, {Days: 1, From: 30, To: 100}},
		OverspendRules:     []DayRangeConfig{{5, 5}, {6, 6}, {7, 0}},
		CapMultiples:       []float64{1.5, 2, 2.5, 4},
	}
	if warnings := clean.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() unexpected warnings = %v", warnings)
	}

	noisy := RuleValidator{
		Workers:            -1,
		DigitBonusCents:    []int{149},
		CalendarModulus:    7,
		CalendarRemainders: []int{7},
		LowSpendPenalties:  []RangeConfig{{From: 50, To: 30}},
		CapMultiples:       []float64{0.5},
	}
	warnings := noisy.ValidateAll()
	if len(warnings) != 5 {
		t.Fatalf("ValidateAll() = %v, expected 5 warnings", warnings)
	}

	expected := []string{"workers", "cents 149", "remainder 7", "empty receipt range", "below the receipts"}
	for i, want := range expected {
		if !strings.Contains(warnings[i], want) {
			t.Errorf("warning %d = %q, expected it to mention %q", i, warnings[i], want)
		}
	}
}
