package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/reimburse/internal/reimbursement"
	"github.com/iwvelando/reimburse/pkg/tiers"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reimburse.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config file",
			configPath: filepath.Join("..", "..", "reimburse.yaml.example"),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "debug" {
		t.Errorf("Expected logging level 'debug', got '%s'", conf.Logging.Level)
	}
	if conf.Logging.Format != "json" {
		t.Errorf("Expected default logging format 'json', got '%s'", conf.Logging.Format)
	}
	if conf.Output.Format != "plain" {
		t.Errorf("Expected default output format 'plain', got '%s'", conf.Output.Format)
	}
	if conf.Rules.PerDiem.SingleDay != 120 {
		t.Errorf("Expected default single-day per diem, got %v", conf.Rules.PerDiem.SingleDay)
	}
	if len(conf.Rules.Mileage) != 3 {
		t.Errorf("Expected default mileage schedule, got %v", conf.Rules.Mileage)
	}
}

func TestLoadConfigurationRuleOverrides(t *testing.T) {
	path := writeConfig(t, `
batch:
  workers: 4
rules:
  perDiem:
    singleDay: 150
  mileage:
    - upTo: 200
      rate: 0.60
    - rate: 0.40
  adjustments:
    digitBonus:
      cents: [99]
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Batch.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", conf.Batch.Workers)
	}
	if conf.Rules.PerDiem.SingleDay != 150 {
		t.Errorf("Expected single-day per diem 150, got %v", conf.Rules.PerDiem.SingleDay)
	}
	if conf.Rules.PerDiem.LongTripDaily != 75 {
		t.Errorf("Expected untouched long-trip rate 75, got %v", conf.Rules.PerDiem.LongTripDaily)
	}

	expectedMileage := tiers.Schedule{{UpTo: 200, Rate: 0.60}, {Rate: 0.40}}
	if len(conf.Rules.Mileage) != len(expectedMileage) {
		t.Fatalf("Expected mileage schedule to be replaced, got %v", conf.Rules.Mileage)
	}
	for i, tier := range expectedMileage {
		if conf.Rules.Mileage[i] != tier {
			t.Errorf("Mileage tier %d = %+v, expected %+v", i, conf.Rules.Mileage[i], tier)
		}
	}

	cents := conf.Rules.Adjustments.DigitBonus.Cents
	if len(cents) != 1 || cents[0] != 99 {
		t.Errorf("Expected digit bonus cents [99], got %v", cents)
	}
	if conf.Rules.Adjustments.DigitBonus.Bonus != 8 {
		t.Errorf("Expected untouched digit bonus 8, got %v", conf.Rules.Adjustments.DigitBonus.Bonus)
	}
}

func TestLoadConfigurationInvalidRules(t *testing.T) {
	path := writeConfig(t, `
rules:
  mileage:
    - upTo: 500
      rate: 0.45
    - upTo: 100
      rate: 0.58
`)

	if _, err := LoadConfiguration(path); err == nil {
		t.Errorf("LoadConfiguration() expected error for decreasing mileage bounds")
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")
	t.Setenv("REIMBURSE_LOGGING_LEVEL", "warn")

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Logging.Level != "warn" {
		t.Errorf("Expected environment override 'warn', got '%s'", conf.Logging.Level)
	}
}

func TestLoadOptional(t *testing.T) {
	conf, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if conf.Output.Format != "plain" {
		t.Errorf("Expected default output format, got '%s'", conf.Output.Format)
	}
	if err := conf.Rules.Validate(); err != nil {
		t.Errorf("Default rules invalid: %v", err)
	}

	path := writeConfig(t, "output:\n  format: pretty\n")
	conf, err = LoadOptional(path)
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if conf.Output.Format != "pretty" {
		t.Errorf("Expected output format 'pretty', got '%s'", conf.Output.Format)
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf := Default()
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Default configuration produced warnings: %v", warnings)
	}

	conf.Batch.Workers = -2
	conf.Rules.Adjustments.Calendar.Effects = append(conf.Rules.Adjustments.Calendar.Effects,
		reimbursement.CalendarEffect{Remainder: 9, Amount: 1})
	conf.Rules.Adjustments.Overspend = append(conf.Rules.Adjustments.Overspend,
		reimbursement.OverspendRule{MinDays: 8, ReceiptsPerDayAbove: 50, Multiplier: 0.5})

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
}
