// Package tiers implements graduated rate schedules: the first N units are
// paid at one rate, the units up to the next bound at another, and so on.
package tiers

import (
	"fmt"
	"math"
)

// Tier is one slice of a Schedule. UpTo is the cumulative upper bound of the
// slice; zero marks the unbounded final tier.
type Tier struct {
	UpTo float64 `yaml:"upTo" json:"upTo"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// Schedule is an ordered list of tiers with strictly increasing bounds.
type Schedule []Tier

// Flat returns a single unbounded tier paying rate on every unit.
func Flat(rate float64) Schedule {
	return Schedule{{Rate: rate}}
}

// Unbounded reports whether the tier has no upper bound.
func (t Tier) Unbounded() bool {
	return t.UpTo == 0
}

// Validate checks the schedule invariants: at least one tier, positive and
// strictly increasing bounds, non-negative rates, and only the final tier
// unbounded.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schedule has no tiers")
	}

	previous := 0.0
	for i, tier := range s {
		if tier.Rate < 0 || math.IsNaN(tier.Rate) || math.IsInf(tier.Rate, 0) {
			return fmt.Errorf("tier %d: invalid rate %v", i, tier.Rate)
		}
		if tier.Unbounded() {
			if i != len(s)-1 {
				return fmt.Errorf("tier %d: only the final tier may be unbounded", i)
			}
			continue
		}
		if tier.UpTo < 0 || math.IsNaN(tier.UpTo) || math.IsInf(tier.UpTo, 0) {
			return fmt.Errorf("tier %d: invalid bound %v", i, tier.UpTo)
		}
		if tier.UpTo <= previous {
			return fmt.Errorf("tier %d: bound %v does not exceed previous bound %v", i, tier.UpTo, previous)
		}
		previous = tier.UpTo
	}
	return nil
}

// Accumulate pays quantity across the schedule and returns the total along
// with the rate of the tier that held the final unit. Quantity beyond a
// bounded final tier keeps accruing at that tier's rate.
func (s Schedule) Accumulate(quantity float64) (total float64, lastRate float64) {
	if len(s) == 0 {
		return 0, 0
	}
	if quantity <= 0 {
		return 0, s[0].Rate
	}

	previousLimit := 0.0
	for i, tier := range s {
		if tier.Unbounded() || i == len(s)-1 || quantity <= tier.UpTo {
			total += (quantity - previousLimit) * tier.Rate
			return total, tier.Rate
		}
		total += (tier.UpTo - previousLimit) * tier.Rate
		previousLimit = tier.UpTo
	}
	return total, s[len(s)-1].Rate
}

// Amount is Accumulate without the last active rate.
func (s Schedule) Amount(quantity float64) float64 {
	total, _ := s.Accumulate(quantity)
	return total
}

// Extend returns a new schedule made of s followed by more. The receiver is
// not modified.
func (s Schedule) Extend(more ...Tier) Schedule {
	out := make(Schedule, 0, len(s)+len(more))
	out = append(out, s...)
	return append(out, more...)
}
