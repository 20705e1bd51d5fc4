package validation

import "fmt"

// RuleValidator holds the parts of a configuration that can be legal yet
// have no effect. ValidateAll reports them as warnings.
type RuleValidator struct {
	Workers            int
	DigitBonusCents    []int
	CalendarModulus    int
	CalendarRemainders []int
	LowSpendPenalties  []RangeConfig
	OverspendRules     []DayRangeConfig
	CapMultiples       []float64
}

// RangeConfig is a half-open receipt range [From, To) for trips of Days
// days; zero Days applies to every length.
type RangeConfig struct {
	Days int
	From float64
	To   float64
}

// DayRangeConfig is an inclusive trip length range; zero MaxDays is open.
type DayRangeConfig struct {
	MinDays int
	MaxDays int
}

// ValidateDigitCents checks that every configured cents value can occur.
func ValidateDigitCents(cents []int) []string {
	var warnings []string
	for _, c := range cents {
		if c < 0 || c > 99 {
			warnings = append(warnings, fmt.Sprintf("Digit bonus cents %d is outside 0-99 and never matches", c))
		}
	}
	return warnings
}

// ValidateRemainders checks that every calendar remainder is reachable.
func ValidateRemainders(modulus int, remainders []int) []string {
	var warnings []string
	for _, r := range remainders {
		if r < 0 || (modulus > 0 && r >= modulus) {
			warnings = append(warnings, fmt.Sprintf("Calendar remainder %d is outside 0-%d and never matches", r, modulus-1))
		}
	}
	return warnings
}

// ValidateRanges flags empty receipt ranges.
func ValidateRanges(ranges []RangeConfig) []string {
	var warnings []string
	for i, r := range ranges {
		if r.From >= r.To {
			warnings = append(warnings, fmt.Sprintf("Low-spend penalty %d has an empty receipt range [%.2f, %.2f)", i, r.From, r.To))
		}
	}
	return warnings
}

// ValidateDayRanges flags rules shadowed by an earlier rule, since only the
// first rule covering a trip length is consulted.
func ValidateDayRanges(ranges []DayRangeConfig) []string {
	var warnings []string
	for i, later := range ranges {
		for j := 0; j < i; j++ {
			if covers(ranges[j], later) {
				warnings = append(warnings, fmt.Sprintf("Overspend rule %d is shadowed by rule %d", i, j))
				break
			}
		}
	}
	return warnings
}

func covers(outer, inner DayRangeConfig) bool {
	if inner.MinDays < outer.MinDays {
		return false
	}
	if outer.MaxDays == 0 {
		return true
	}
	return inner.MaxDays != 0 && inner.MaxDays <= outer.MaxDays
}

// ValidateAll validates the rule table and returns warnings
func (rv *RuleValidator) ValidateAll() []string {
	var warnings []string

	if rv.Workers < 0 {
		warnings = append(warnings, fmt.Sprintf("Batch workers %d is negative - using one worker per CPU", rv.Workers))
	}

	warnings = append(warnings, ValidateDigitCents(rv.DigitBonusCents)...)
	warnings = append(warnings, ValidateRemainders(rv.CalendarModulus, rv.CalendarRemainders)...)
	warnings = append(warnings, ValidateRanges(rv.LowSpendPenalties)...)
	warnings = append(warnings, ValidateDayRanges(rv.OverspendRules)...)

	for i, m := range rv.CapMultiples {
		if m < 1 {
			warnings = append(warnings, fmt.Sprintf("Cap %d limits the total below the receipts (multiple %.2f)", i, m))
		}
	}

	return warnings
}
