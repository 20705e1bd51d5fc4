package reimbursement

import "github.com/iwvelando/reimburse/pkg/mathutil"

// Enforce applies the first matching receipt cap and the floor to the raw
// total. The returned limit is zero when no cap matched or the cap did not
// bind.
func (b BoundRules) Enforce(trip Trip, m Metrics, total float64) (bounded float64, limit float64) {
	for _, c := range b.Caps {
		if trip.Receipts >= c.ReceiptsAtLeast && m.ReceiptsPerDay >= c.MinReceiptsPerDay {
			ceiling := trip.Receipts * c.Multiple
			if total > ceiling {
				total = ceiling
				limit = ceiling
			}
			break
		}
	}
	return mathutil.Max(total, b.Floor), limit
}
