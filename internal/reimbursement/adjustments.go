package reimbursement

import (
	"fmt"
	"math"
)

// ledger carries the base and receipt components through the adjustment
// pipeline. Mileage is never adjusted.
type ledger struct {
	base     float64
	receipts float64
	ignored  bool
	notes    []string
}

func (l *ledger) note(format string, args ...interface{}) {
	l.notes = append(l.notes, fmt.Sprintf(format, args...))
}

type adjustment func(a AdjustmentRules, trip Trip, m Metrics, l *ledger)

// pipeline is evaluated in order; later steps see the output of earlier ones.
var pipeline = []adjustment{
	fiveDayBonus,
	lowSpendPenalty,
	digitBonus,
	calendarEffect,
	overspendPenalty,
	singleDayExtreme,
}

func (a AdjustmentRules) apply(trip Trip, m Metrics, l *ledger) {
	for _, step := range pipeline {
		step(a, trip, m, l)
	}
}

func fiveDayBonus(a AdjustmentRules, trip Trip, m Metrics, l *ledger) {
	rule := a.FiveDay
	if trip.Days != rule.Days {
		return
	}

	l.base += rule.BaseBonus
	l.note("%d-day base bonus %+.2f", rule.Days, rule.BaseBonus)

	if l.ignored {
		return
	}
	switch {
	case m.ReceiptsPerDay <= rule.MaxReceiptsPerDay && m.MilesPerDay >= rule.MinMilesPerDay:
		l.receipts *= rule.Multiplier
		l.note("%d-day receipt multiplier x%.2f", rule.Days, rule.Multiplier)
	case m.ReceiptsPerDay <= rule.FallbackMaxPerDay:
		l.receipts *= rule.FallbackMultiplier
		l.note("%d-day receipt multiplier x%.2f", rule.Days, rule.FallbackMultiplier)
	}
}

// lowSpendPenalty deducts from the base, not the receipts, so ignored
// receipts stay at exactly zero.
func lowSpendPenalty(a AdjustmentRules, trip Trip, m Metrics, l *ledger) {
	rule := a.LowSpend
	if m.MilesPerDay >= rule.ExemptMilesPerDay {
		return
	}

	for _, p := range penaltiesFor(rule.Penalties, trip.Days) {
		if trip.Receipts >= p.ReceiptsFrom && trip.Receipts < p.ReceiptsBelow {
			l.base -= p.Amount
			l.note("low-spend penalty %+.2f", -p.Amount)
			return
		}
	}
}

// penaltiesFor returns the penalties specific to the trip length, falling
// back to the ones with Days of zero.
func penaltiesFor(penalties []LowSpendPenalty, days int) []LowSpendPenalty {
	var specific, fallback []LowSpendPenalty
	for _, p := range penalties {
		switch p.Days {
		case days:
			specific = append(specific, p)
		case 0:
			fallback = append(fallback, p)
		}
	}
	if len(specific) > 0 {
		return specific
	}
	return fallback
}

func digitBonus(a AdjustmentRules, trip Trip, _ Metrics, l *ledger) {
	if l.ignored {
		return
	}
	cents := ReceiptCents(trip.Receipts)
	for _, c := range a.DigitBonus.Cents {
		if cents == c {
			l.receipts += a.DigitBonus.Bonus
			l.note("receipt cents .%02d bonus %+.2f", cents, a.DigitBonus.Bonus)
			return
		}
	}
}

// calendarEffect has no known business meaning; it reproduces the legacy
// output and should not be extended.
func calendarEffect(a AdjustmentRules, trip Trip, _ Metrics, l *ledger) {
	if l.ignored || a.Calendar.Modulus <= 0 {
		return
	}
	hash := CalendarHash(trip.Receipts, a.Calendar.Modulus)
	for _, effect := range a.Calendar.Effects {
		if hash == effect.Remainder {
			l.receipts += effect.Amount
			l.note("calendar effect %d %+.2f", hash, effect.Amount)
			return
		}
	}
}

func overspendPenalty(a AdjustmentRules, trip Trip, m Metrics, l *ledger) {
	if l.ignored {
		return
	}
	for _, rule := range a.Overspend {
		if trip.Days < rule.MinDays || (rule.MaxDays != 0 && trip.Days > rule.MaxDays) {
			continue
		}
		if m.ReceiptsPerDay <= rule.ReceiptsPerDayAbove {
			return
		}
		if rule.MilesBelow != 0 && trip.Miles >= rule.MilesBelow {
			return
		}
		l.receipts *= rule.Multiplier
		l.note("overspend multiplier x%.2f", rule.Multiplier)
		return
	}
}

func singleDayExtreme(a AdjustmentRules, trip Trip, _ Metrics, l *ledger) {
	rule := a.SingleDayExtreme
	if l.ignored || trip.Days != rule.Days || trip.Miles <= rule.MilesAbove || trip.Receipts <= rule.ReceiptsAbove {
		return
	}
	l.receipts = rule.ReceiptsAbove*rule.BaseRate + (trip.Receipts-rule.ReceiptsAbove)*rule.ExcessRate
	l.note("single-day extreme receipts override %.2f", l.receipts)
}

// ReceiptCents returns the cents part of a receipt amount.
func ReceiptCents(receipts float64) int {
	return int(int64(math.Round(receipts*100)) % 100)
}

// CalendarHash returns floor(receipts*100) modulo modulus.
func CalendarHash(receipts float64, modulus int) int {
	return int(int64(math.Floor(receipts*100)) % int64(modulus))
}
