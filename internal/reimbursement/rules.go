package reimbursement

import (
	"errors"
	"fmt"

	"github.com/iwvelando/reimburse/pkg/tiers"
)

// Rules is the complete table of business constants the engine evaluates.
// An Engine keeps its own copy, so a Rules value can be changed freely after
// it has been handed to New.
type Rules struct {
	PerDiem     PerDiemRules    `yaml:"perDiem" json:"perDiem"`
	Mileage     tiers.Schedule  `yaml:"mileage" json:"mileage"`
	Zones       ZoneRules       `yaml:"zones" json:"zones"`
	Receipts    ReceiptRules    `yaml:"receipts" json:"receipts"`
	Adjustments AdjustmentRules `yaml:"adjustments" json:"adjustments"`
	Bounds      BoundRules      `yaml:"bounds" json:"bounds"`
}

// PerDiemRules maps trip length to the base daily rate. A single-day trip
// gets SingleDay flat; longer trips use the first band whose MaxDays covers
// the trip, and LongTripDaily beyond the last band.
type PerDiemRules struct {
	SingleDay     float64       `yaml:"singleDay" json:"singleDay"`
	Bands         []PerDiemBand `yaml:"bands" json:"bands"`
	LongTripDaily float64       `yaml:"longTripDaily" json:"longTripDaily"`
}

// PerDiemBand is a daily rate for trips of up to MaxDays days.
type PerDiemBand struct {
	MaxDays int     `yaml:"maxDays" json:"maxDays"`
	Daily   float64 `yaml:"daily" json:"daily"`
}

// ZoneRules holds the miles-per-day thresholds of the efficiency guard chain.
type ZoneRules struct {
	ExtremeAbove         float64 `yaml:"extremeAbove" json:"extremeAbove"`
	SuperProductivityMin float64 `yaml:"superProductivityMin" json:"superProductivityMin"`
	SuperProductivityMax float64 `yaml:"superProductivityMax" json:"superProductivityMax"`
	HighEfficiencyAbove  float64 `yaml:"highEfficiencyAbove" json:"highEfficiencyAbove"`
	SweetSpotMin         float64 `yaml:"sweetSpotMin" json:"sweetSpotMin"`
	StandardAbove        float64 `yaml:"standardAbove" json:"standardAbove"`
}

// ReceiptRules holds the zone schedules and the rules that override them.
type ReceiptRules struct {
	Extreme                    tiers.Schedule `yaml:"extreme" json:"extreme"`
	SuperProductivitySingleDay tiers.Schedule `yaml:"superProductivitySingleDay" json:"superProductivitySingleDay"`
	SuperProductivityMultiDay  tiers.Schedule `yaml:"superProductivityMultiDay" json:"superProductivityMultiDay"`
	HighEfficiency             tiers.Schedule `yaml:"highEfficiency" json:"highEfficiency"`
	SweetSpotLongTrip          tiers.Schedule `yaml:"sweetSpotLongTrip" json:"sweetSpotLongTrip"`
	SweetSpotShortTrip         tiers.Schedule `yaml:"sweetSpotShortTrip" json:"sweetSpotShortTrip"`
	SweetSpotLongTripDays      int            `yaml:"sweetSpotLongTripDays" json:"sweetSpotLongTripDays"`
	Standard                   tiers.Schedule `yaml:"standard" json:"standard"`
	StandardReduced            tiers.Schedule `yaml:"standardReduced" json:"standardReduced"`
	StandardReducedDays        int            `yaml:"standardReducedDays" json:"standardReducedDays"`
	LowEfficiency              tiers.Schedule `yaml:"lowEfficiency" json:"lowEfficiency"`

	HighReceiptCorrection HighReceiptCorrection `yaml:"highReceiptCorrection" json:"highReceiptCorrection"`
	NearZero              NearZeroRule          `yaml:"nearZero" json:"nearZero"`
}

// HighReceiptCorrection re-prices receipts above Threshold at Rate for trips
// of at least MinDays days.
type HighReceiptCorrection struct {
	MinDays   int     `yaml:"minDays" json:"minDays"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Rate      float64 `yaml:"rate" json:"rate"`
}

// NearZeroRule zeroes the receipt component for receipts below Below, or
// for trips of at least LongTripDays days spending under MinPerDay a day.
type NearZeroRule struct {
	Below        float64 `yaml:"below" json:"below"`
	LongTripDays int     `yaml:"longTripDays" json:"longTripDays"`
	MinPerDay    float64 `yaml:"minPerDay" json:"minPerDay"`
}

// AdjustmentRules parameterizes the ordered adjustment pipeline.
type AdjustmentRules struct {
	FiveDay          FiveDayRule          `yaml:"fiveDay" json:"fiveDay"`
	LowSpend         LowSpendRule         `yaml:"lowSpend" json:"lowSpend"`
	DigitBonus       DigitBonusRule       `yaml:"digitBonus" json:"digitBonus"`
	Calendar         CalendarRule         `yaml:"calendar" json:"calendar"`
	Overspend        []OverspendRule      `yaml:"overspend" json:"overspend"`
	SingleDayExtreme SingleDayExtremeRule `yaml:"singleDayExtreme" json:"singleDayExtreme"`
}

// FiveDayRule rewards trips of exactly Days days.
type FiveDayRule struct {
	Days               int     `yaml:"days" json:"days"`
	BaseBonus          float64 `yaml:"baseBonus" json:"baseBonus"`
	MaxReceiptsPerDay  float64 `yaml:"maxReceiptsPerDay" json:"maxReceiptsPerDay"`
	MinMilesPerDay     float64 `yaml:"minMilesPerDay" json:"minMilesPerDay"`
	Multiplier         float64 `yaml:"multiplier" json:"multiplier"`
	FallbackMaxPerDay  float64 `yaml:"fallbackMaxPerDay" json:"fallbackMaxPerDay"`
	FallbackMultiplier float64 `yaml:"fallbackMultiplier" json:"fallbackMultiplier"`
}

// LowSpendRule deducts from the base per diem when receipts are small. Trips
// at or above ExemptMilesPerDay are never penalized.
type LowSpendRule struct {
	ExemptMilesPerDay float64           `yaml:"exemptMilesPerDay" json:"exemptMilesPerDay"`
	Penalties         []LowSpendPenalty `yaml:"penalties" json:"penalties"`
}

// LowSpendPenalty deducts Amount when receipts fall in [ReceiptsFrom,
// ReceiptsBelow). Days of zero applies to every trip length without penalties
// of its own.
type LowSpendPenalty struct {
	Days          int     `yaml:"days" json:"days"`
	ReceiptsFrom  float64 `yaml:"receiptsFrom" json:"receiptsFrom"`
	ReceiptsBelow float64 `yaml:"receiptsBelow" json:"receiptsBelow"`
	Amount        float64 `yaml:"amount" json:"amount"`
}

// DigitBonusRule adds Bonus when the receipt cents equal one of Cents.
type DigitBonusRule struct {
	Cents []int   `yaml:"cents" json:"cents"`
	Bonus float64 `yaml:"bonus" json:"bonus"`
}

// CalendarRule is the pseudo-calendar effect: floor(receipts*100) modulo
// Modulus selects an additive effect on the receipt component.
type CalendarRule struct {
	Modulus int              `yaml:"modulus" json:"modulus"`
	Effects []CalendarEffect `yaml:"effects" json:"effects"`
}

// CalendarEffect adds Amount when the calendar hash equals Remainder.
type CalendarEffect struct {
	Remainder int     `yaml:"remainder" json:"remainder"`
	Amount    float64 `yaml:"amount" json:"amount"`
}

// OverspendRule scales the receipt component of trips lasting MinDays to
// MaxDays days (zero MaxDays is open-ended) that spend more than
// ReceiptsPerDayAbove a day. A non-zero MilesBelow exempts trips of that many
// miles or more.
type OverspendRule struct {
	MinDays             int     `yaml:"minDays" json:"minDays"`
	MaxDays             int     `yaml:"maxDays" json:"maxDays"`
	ReceiptsPerDayAbove float64 `yaml:"receiptsPerDayAbove" json:"receiptsPerDayAbove"`
	MilesBelow          float64 `yaml:"milesBelow" json:"milesBelow"`
	Multiplier          float64 `yaml:"multiplier" json:"multiplier"`
}

// SingleDayExtremeRule replaces the receipt component of one-day trips with
// both extreme mileage and extreme receipts.
type SingleDayExtremeRule struct {
	Days          int     `yaml:"days" json:"days"`
	MilesAbove    float64 `yaml:"milesAbove" json:"milesAbove"`
	ReceiptsAbove float64 `yaml:"receiptsAbove" json:"receiptsAbove"`
	BaseRate      float64 `yaml:"baseRate" json:"baseRate"`
	ExcessRate    float64 `yaml:"excessRate" json:"excessRate"`
}

// BoundRules is the final sanity clamp. The first cap whose conditions hold
// limits the total to Multiple times the receipts; the total never drops
// below Floor.
type BoundRules struct {
	Caps  []ReceiptCap `yaml:"caps" json:"caps"`
	Floor float64      `yaml:"floor" json:"floor"`
}

// ReceiptCap applies to trips with receipts of at least ReceiptsAtLeast and
// a daily spend of at least MinReceiptsPerDay.
type ReceiptCap struct {
	ReceiptsAtLeast   float64 `yaml:"receiptsAtLeast" json:"receiptsAtLeast"`
	MinReceiptsPerDay float64 `yaml:"minReceiptsPerDay" json:"minReceiptsPerDay"`
	Multiple          float64 `yaml:"multiple" json:"multiple"`
}

// DefaultRules returns the reference rule table.
func DefaultRules() Rules {
	return Rules{
		PerDiem: PerDiemRules{
			SingleDay: 120,
			Bands: []PerDiemBand{
				{MaxDays: 3, Daily: 105},
				{MaxDays: 6, Daily: 95},
				{MaxDays: 10, Daily: 85},
			},
			LongTripDaily: 75,
		},
		Mileage: tiers.Schedule{
			{UpTo: 100, Rate: 0.58},
			{UpTo: 500, Rate: 0.45},
			{Rate: 0.35},
		},
		Zones: ZoneRules{
			ExtremeAbove:         1000,
			SuperProductivityMin: 600,
			SuperProductivityMax: 900,
			HighEfficiencyAbove:  400,
			SweetSpotMin:         160,
			StandardAbove:        100,
		},
		Receipts: ReceiptRules{
			Extreme: tiers.Flat(0.10),
			SuperProductivitySingleDay: tiers.Schedule{
				{UpTo: 800, Rate: 1.20},
				{UpTo: 1200, Rate: 0.90},
				{UpTo: 1500, Rate: 0.40},
				{Rate: 0.15},
			},
			SuperProductivityMultiDay: tiers.Schedule{
				{UpTo: 800, Rate: 1.20},
				{UpTo: 1200, Rate: 0.90},
				{UpTo: 2000, Rate: 0.40},
				{Rate: 0.20},
			},
			HighEfficiency: tiers.Schedule{
				{UpTo: 300, Rate: 0.40},
				{UpTo: 800, Rate: 0.25},
				{UpTo: 1500, Rate: 0.15},
				{UpTo: 2500, Rate: 0.10},
				{Rate: 0.05},
			},
			SweetSpotLongTrip: sweetSpotBase().Extend(
				tiers.Tier{UpTo: 2000, Rate: 0.60},
				tiers.Tier{Rate: 0.30},
			),
			SweetSpotShortTrip: sweetSpotBase().Extend(
				tiers.Tier{UpTo: 2000, Rate: 0.50},
				tiers.Tier{Rate: 0.20},
			),
			SweetSpotLongTripDays: 7,
			Standard: tiers.Schedule{
				{UpTo: 400, Rate: 0.65},
				{UpTo: 600, Rate: 0.45},
				{Rate: 0.25},
			},
			StandardReduced: tiers.Schedule{
				{UpTo: 400, Rate: 0.65},
				{UpTo: 600, Rate: 0.45},
				{Rate: 0.10},
			},
			StandardReducedDays: 5,
			LowEfficiency: tiers.Schedule{
				{UpTo: 200, Rate: 0.50},
				{UpTo: 400, Rate: 0.30},
				{Rate: 0.15},
			},
			HighReceiptCorrection: HighReceiptCorrection{MinDays: 5, Threshold: 1500, Rate: 0.20},
			NearZero:              NearZeroRule{Below: 50, LongTripDays: 10, MinPerDay: 15},
		},
		Adjustments: AdjustmentRules{
			FiveDay: FiveDayRule{
				Days:               5,
				BaseBonus:          75,
				MaxReceiptsPerDay:  150,
				MinMilesPerDay:     80,
				Multiplier:         1.10,
				FallbackMaxPerDay:  100,
				FallbackMultiplier: 1.05,
			},
			LowSpend: LowSpendRule{
				ExemptMilesPerDay: 80,
				Penalties: []LowSpendPenalty{
					{Days: 1, ReceiptsBelow: 30, Amount: 40},
					{Days: 1, ReceiptsFrom: 30, ReceiptsBelow: 100, Amount: 20},
					{Days: 2, ReceiptsBelow: 50, Amount: 20},
					{ReceiptsBelow: 30, Amount: 20},
				},
			},
			DigitBonus: DigitBonusRule{Cents: []int{49, 99}, Bonus: 8},
			Calendar: CalendarRule{
				Modulus: 7,
				Effects: []CalendarEffect{
					{Remainder: 1, Amount: 10},
					{Remainder: 4, Amount: -5},
				},
			},
			Overspend: []OverspendRule{
				{MinDays: 5, MaxDays: 5, ReceiptsPerDayAbove: 200, Multiplier: 0.85},
				{MinDays: 6, MaxDays: 6, ReceiptsPerDayAbove: 120, Multiplier: 0.75},
				{MinDays: 7, ReceiptsPerDayAbove: 90, MilesBelow: 900, Multiplier: 0.65},
			},
			SingleDayExtreme: SingleDayExtremeRule{
				Days:          1,
				MilesAbove:    1000,
				ReceiptsAbove: 1000,
				BaseRate:      0.10,
				ExcessRate:    0.40,
			},
		},
		Bounds: BoundRules{
			Caps: []ReceiptCap{
				{ReceiptsAtLeast: 1500, Multiple: 1.5},
				{ReceiptsAtLeast: 1000, Multiple: 2},
				{ReceiptsAtLeast: 500, Multiple: 2.5},
				{ReceiptsAtLeast: 100, MinReceiptsPerDay: 15, Multiple: 4},
			},
			Floor: 0,
		},
	}
}

func sweetSpotBase() tiers.Schedule {
	return tiers.Schedule{
		{UpTo: 600, Rate: 0.80},
		{UpTo: 1200, Rate: 0.65},
	}
}

// Validate checks the rule table for values the engine cannot evaluate.
func (r Rules) Validate() error {
	var errs []error

	if r.PerDiem.SingleDay <= 0 || r.PerDiem.LongTripDaily <= 0 {
		errs = append(errs, fmt.Errorf("perDiem: rates must be positive"))
	}
	previousDays := 1
	for i, band := range r.PerDiem.Bands {
		if band.MaxDays <= previousDays {
			errs = append(errs, fmt.Errorf("perDiem.bands[%d]: maxDays %d must exceed %d", i, band.MaxDays, previousDays))
		}
		if band.Daily <= 0 {
			errs = append(errs, fmt.Errorf("perDiem.bands[%d]: daily rate must be positive", i))
		}
		previousDays = band.MaxDays
	}

	schedules := []struct {
		name     string
		schedule tiers.Schedule
	}{
		{"mileage", r.Mileage},
		{"receipts.extreme", r.Receipts.Extreme},
		{"receipts.superProductivitySingleDay", r.Receipts.SuperProductivitySingleDay},
		{"receipts.superProductivityMultiDay", r.Receipts.SuperProductivityMultiDay},
		{"receipts.highEfficiency", r.Receipts.HighEfficiency},
		{"receipts.sweetSpotLongTrip", r.Receipts.SweetSpotLongTrip},
		{"receipts.sweetSpotShortTrip", r.Receipts.SweetSpotShortTrip},
		{"receipts.standard", r.Receipts.Standard},
		{"receipts.standardReduced", r.Receipts.StandardReduced},
		{"receipts.lowEfficiency", r.Receipts.LowEfficiency},
	}
	for _, s := range schedules {
		if err := s.schedule.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	z := r.Zones
	if z.SuperProductivityMin > z.SuperProductivityMax {
		errs = append(errs, fmt.Errorf("zones: superProductivityMin %v exceeds superProductivityMax %v",
			z.SuperProductivityMin, z.SuperProductivityMax))
	}
	if !(z.StandardAbove < z.SweetSpotMin && z.SweetSpotMin <= z.HighEfficiencyAbove) {
		errs = append(errs, fmt.Errorf("zones: expected standardAbove < sweetSpotMin <= highEfficiencyAbove"))
	}

	if r.Adjustments.Calendar.Modulus <= 0 {
		errs = append(errs, fmt.Errorf("adjustments.calendar: modulus must be positive"))
	}
	for i, o := range r.Adjustments.Overspend {
		if o.MinDays <= 0 || (o.MaxDays != 0 && o.MaxDays < o.MinDays) {
			errs = append(errs, fmt.Errorf("adjustments.overspend[%d]: invalid day range %d-%d", i, o.MinDays, o.MaxDays))
		}
		if o.Multiplier < 0 {
			errs = append(errs, fmt.Errorf("adjustments.overspend[%d]: negative multiplier", i))
		}
	}
	for i, c := range r.Bounds.Caps {
		if c.Multiple <= 0 {
			errs = append(errs, fmt.Errorf("bounds.caps[%d]: multiple must be positive", i))
		}
	}
	if r.Bounds.Floor < 0 {
		errs = append(errs, fmt.Errorf("bounds: floor must not be negative"))
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy of the rule table.
func (r Rules) Clone() Rules {
	out := r
	out.PerDiem.Bands = cloneSlice(r.PerDiem.Bands)
	out.Mileage = cloneSlice(r.Mileage)
	out.Receipts.Extreme = cloneSlice(r.Receipts.Extreme)
	out.Receipts.SuperProductivitySingleDay = cloneSlice(r.Receipts.SuperProductivitySingleDay)
	out.Receipts.SuperProductivityMultiDay = cloneSlice(r.Receipts.SuperProductivityMultiDay)
	out.Receipts.HighEfficiency = cloneSlice(r.Receipts.HighEfficiency)
	out.Receipts.SweetSpotLongTrip = cloneSlice(r.Receipts.SweetSpotLongTrip)
	out.Receipts.SweetSpotShortTrip = cloneSlice(r.Receipts.SweetSpotShortTrip)
	out.Receipts.Standard = cloneSlice(r.Receipts.Standard)
	out.Receipts.StandardReduced = cloneSlice(r.Receipts.StandardReduced)
	out.Receipts.LowEfficiency = cloneSlice(r.Receipts.LowEfficiency)
	out.Adjustments.LowSpend.Penalties = cloneSlice(r.Adjustments.LowSpend.Penalties)
	out.Adjustments.DigitBonus.Cents = cloneSlice(r.Adjustments.DigitBonus.Cents)
	out.Adjustments.Calendar.Effects = cloneSlice(r.Adjustments.Calendar.Effects)
	out.Adjustments.Overspend = cloneSlice(r.Adjustments.Overspend)
	out.Bounds.Caps = cloneSlice(r.Bounds.Caps)
	return out
}

func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(S(nil), s...)
}
