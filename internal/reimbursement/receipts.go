package reimbursement

import "github.com/iwvelando/reimburse/pkg/tiers"

// ReceiptComponent is the output of the receipt calculator. LastRate is the
// rate of the schedule tier that held the final receipt dollar, which the
// high-receipt correction needs to back out the excess.
type ReceiptComponent struct {
	Amount    float64 `json:"amount"`
	LastRate  float64 `json:"lastRate"`
	Ignored   bool    `json:"ignored"`
	Corrected bool    `json:"corrected"`
}

// Schedule selects the receipt schedule for a zone and trip length.
func (r ReceiptRules) Schedule(zone Zone, days int) tiers.Schedule {
	switch zone {
	case ZoneExtreme:
		return r.Extreme
	case ZoneSuperProductivity:
		if days == 1 {
			return r.SuperProductivitySingleDay
		}
		return r.SuperProductivityMultiDay
	case ZoneHighEfficiency:
		return r.HighEfficiency
	case ZoneSweetSpot:
		if days >= r.SweetSpotLongTripDays {
			return r.SweetSpotLongTrip
		}
		return r.SweetSpotShortTrip
	case ZoneStandard:
		if days == r.StandardReducedDays {
			return r.StandardReduced
		}
		return r.Standard
	default:
		return r.LowEfficiency
	}
}

// Applies reports whether the receipts are too small to be compensated.
func (n NearZeroRule) Applies(trip Trip, m Metrics) bool {
	if trip.Receipts < n.Below {
		return true
	}
	return n.LongTripDays > 0 && trip.Days >= n.LongTripDays && m.ReceiptsPerDay < n.MinPerDay
}

// Compensate converts receipts into the receipt component. The near-zero
// rule is checked first and wins over every schedule.
func (r ReceiptRules) Compensate(trip Trip, m Metrics, zone Zone) ReceiptComponent {
	if r.NearZero.Applies(trip, m) {
		return ReceiptComponent{Ignored: true}
	}

	amount, lastRate := r.Schedule(zone, trip.Days).Accumulate(trip.Receipts)
	component := ReceiptComponent{Amount: amount, LastRate: lastRate}

	hc := r.HighReceiptCorrection
	if trip.Days >= hc.MinDays && trip.Receipts > hc.Threshold {
		excess := trip.Receipts - hc.Threshold
		component.Amount -= excess * lastRate
		component.Amount += excess * hc.Rate
		component.Corrected = true
	}
	return component
}
