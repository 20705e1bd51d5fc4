// Package constants provides shared constants for the reimburse application.
package constants

// Currency constants
const (
	// CurrencyPlaces is the number of fractional digits in a currency amount
	CurrencyPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// CloseMatchTolerance is the tolerance for a batch result to count as close
	CloseMatchTolerance = 1.0
)

// Output format constants
const (
	// OutputFormatPlain prints the bare reimbursement amount
	OutputFormatPlain = "plain"

	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON includes the calculation breakdown
	OutputFormatJSON = "json"

	// OutputFormatCSV is the CSV output format, used by batch evaluation
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "reimburse.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024
)
