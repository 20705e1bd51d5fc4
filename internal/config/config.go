// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/reimburse/internal/reimbursement"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/iwvelando/reimburse/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment overrides, e.g. REIMBURSE_LOGGING_LEVEL.
const EnvPrefix = "REIMBURSE"

// Configuration holds all configuration for reimburse.
type Configuration struct {
	Logging LoggingConfig       `yaml:"logging,omitempty"`
	Output  OutputConfig        `yaml:"output,omitempty"`
	Batch   BatchConfig         `yaml:"batch,omitempty"`
	Rules   reimbursement.Rules `yaml:"rules,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // plain, json, pretty
}

// BatchConfig controls batch evaluation.
type BatchConfig struct {
	Workers int `yaml:"workers,omitempty"` // 0 uses one worker per CPU
}

// Default returns the configuration used when no file is present.
func Default() Configuration {
	return Configuration{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Output:  OutputConfig{Format: constants.OutputFormatPlain},
		Rules:   reimbursement.DefaultRules(),
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Sections and rules absent from the file keep their
// defaults; a schedule or list present in the file replaces the default one
// entirely.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("batch.workers", defaults.Batch.Workers)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	configuration := defaults
	err := v.Unmarshal(&configuration, func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	})
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules in %s: %w", configPath, err)
	}

	return &configuration, nil
}

// LoadOptional behaves like LoadConfiguration but returns the defaults when
// the file does not exist.
func LoadOptional(configPath string) (*Configuration, error) {
	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			conf := Default()
			return &conf, nil
		}
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return LoadConfiguration(configPath)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for settings that are legal but have no effect.
func (c *Configuration) ValidateConfiguration() []string {
	rules := c.Rules.Adjustments

	var remainders []int
	for _, effect := range rules.Calendar.Effects {
		remainders = append(remainders, effect.Remainder)
	}

	var lowSpend []validation.RangeConfig
	for _, p := range rules.LowSpend.Penalties {
		lowSpend = append(lowSpend, validation.RangeConfig{
			Days: p.Days,
			From: p.ReceiptsFrom,
			To:   p.ReceiptsBelow,
		})
	}

	var overspend []validation.DayRangeConfig
	for _, o := range rules.Overspend {
		overspend = append(overspend, validation.DayRangeConfig{MinDays: o.MinDays, MaxDays: o.MaxDays})
	}

	var caps []float64
	for _, capRule := range c.Rules.Bounds.Caps {
		caps = append(caps, capRule.Multiple)
	}

	validator := validation.RuleValidator{
		Workers:            c.Batch.Workers,
		DigitBonusCents:    rules.DigitBonus.Cents,
		CalendarModulus:    rules.Calendar.Modulus,
		CalendarRemainders: remainders,
		LowSpendPenalties:  lowSpend,
		OverspendRules:     overspend,
		CapMultiples:       caps,
	}
	return validator.ValidateAll()
}
