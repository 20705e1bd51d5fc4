package reimbursement

import "fmt"

// Zone is the efficiency classification of a trip by miles per day. It picks
// the receipt schedule.
type Zone int

const (
	ZoneLowEfficiency Zone = iota
	ZoneStandard
	ZoneSweetSpot
	ZoneHighEfficiency
	ZoneSuperProductivity
	ZoneExtreme
)

var zoneNames = map[Zone]string{
	ZoneLowEfficiency:     "LowEfficiency",
	ZoneStandard:          "Standard",
	ZoneSweetSpot:         "SweetSpot",
	ZoneHighEfficiency:    "HighEfficiency",
	ZoneSuperProductivity: "SuperProductivity",
	ZoneExtreme:           "Extreme",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("Zone(%d)", int(z))
}

// MarshalText encodes the zone by name.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText decodes a zone name.
func (z *Zone) UnmarshalText(text []byte) error {
	for zone, name := range zoneNames {
		if name == string(text) {
			*z = zone
			return nil
		}
	}
	return fmt.Errorf("unknown efficiency zone %q", string(text))
}

// Classify walks the guard chain and returns the first zone whose guard
// holds. The bands are not a partition: 900-1000 miles per day matches
// neither Extreme nor SuperProductivity and lands in HighEfficiency, and a
// value on a shared boundary resolves to the earlier guard.
func (z ZoneRules) Classify(milesPerDay float64) Zone {
	switch {
	case milesPerDay > z.ExtremeAbove:
		return ZoneExtreme
	case milesPerDay >= z.SuperProductivityMin && milesPerDay <= z.SuperProductivityMax:
		return ZoneSuperProductivity
	case milesPerDay > z.HighEfficiencyAbove:
		return ZoneHighEfficiency
	case milesPerDay >= z.SweetSpotMin:
		return ZoneSweetSpot
	case milesPerDay > z.StandardAbove:
		return ZoneStandard
	default:
		return ZoneLowEfficiency
	}
}
