package reimbursement

import (
	"encoding/json"
	"testing"
)

func TestClassify(t *testing.T) {
	zones := DefaultRules().Zones

	tests := []struct {
		name        string
		milesPerDay float64
		expected    Zone
	}{
		{"Zero", 0, ZoneLowEfficiency},
		{"Low boundary", 100, ZoneLowEfficiency},
		{"Just above low", 100.01, ZoneStandard},
		{"Standard", 130, ZoneStandard},
		{"Just below sweet spot", 159.99, ZoneStandard},
		{"Sweet spot boundary", 160, ZoneSweetSpot},
		{"Sweet spot", 200, ZoneSweetSpot},
		{"High efficiency boundary stays sweet spot", 400, ZoneSweetSpot},
		{"Just above 400", 400.01, ZoneHighEfficiency},
		{"High efficiency", 550, ZoneHighEfficiency},
		{"Super productivity lower bound", 600, ZoneSuperProductivity},
		{"Super productivity", 750, ZoneSuperProductivity},
		{"Super productivity upper bound", 900, ZoneSuperProductivity},
		{"Gap falls through to high efficiency", 950, ZoneHighEfficiency},
		{"Exactly 1000 is not extreme", 1000, ZoneHighEfficiency},
		{"Just above 1000", 1000.01, ZoneExtreme},
		{"Extreme", 5000, ZoneExtreme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zones.Classify(tt.milesPerDay); got != tt.expected {
				t.Errorf("Classify(%v) = %v, expected %v", tt.milesPerDay, got, tt.expected)
			}
		})
	}
}

func TestZoneText(t *testing.T) {
	data, err := json.Marshal(map[string]Zone{"zone": ZoneSuperProductivity})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"zone":"SuperProductivity"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var decoded map[string]Zone
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["zone"] != ZoneSuperProductivity {
		t.Errorf("Unmarshal() = %v", decoded["zone"])
	}

	var z Zone
	if err := z.UnmarshalText([]byte("Nowhere")); err == nil {
		t.Errorf("expected error for unknown zone")
	}
	if Zone(42).String() != "Zone(42)" {
		t.Errorf("unexpected String() for unknown zone: %s", Zone(42).String())
	}
}
