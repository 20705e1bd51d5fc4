package reimbursement

// Base returns the base per diem for a trip of the given length.
func (p PerDiemRules) Base(days int) float64 {
	if days == 1 {
		return p.SingleDay
	}
	for _, band := range p.Bands {
		if days <= band.MaxDays {
			return float64(days) * band.Daily
		}
	}
	return float64(days) * p.LongTripDaily
}

// MileageAmount returns the tiered mileage compensation.
func (r Rules) MileageAmount(miles float64) float64 {
	return r.Mileage.Amount(miles)
}
