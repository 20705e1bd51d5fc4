// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/reimburse/pkg/constants"
)

// SingleOutputFormats are the formats available for one evaluation.
var SingleOutputFormats = []string{
	constants.OutputFormatPlain,
	constants.OutputFormatJSON,
	constants.OutputFormatPretty,
}

// BatchOutputFormats are the formats available for batch results.
var BatchOutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
}

// ValidateOutputFormat checks if the output format is one of the supported
// formats for a single evaluation.
func ValidateOutputFormat(format string) error {
	return validateFormat(format, SingleOutputFormats)
}

// ValidateBatchOutputFormat checks if the output format is one of the
// supported formats for batch results.
func ValidateBatchOutputFormat(format string) error {
	return validateFormat(format, BatchOutputFormats)
}

func validateFormat(format string, allowed []string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %s", strings.Join(allowed, ", "), format)
}
