// Package output provides utilities for formatting and displaying
// reimbursement results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/reimburse/internal/reimbursement"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/iwvelando/reimburse/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ResultDocument is the JSON shape of one evaluation. Amount is a fixed
// two-decimal string so that whole-dollar amounts keep their cents.
type ResultDocument struct {
	Days      int                     `json:"days"`
	Miles     float64                 `json:"miles"`
	Receipts  float64                 `json:"receipts"`
	Amount    string                  `json:"amount"`
	Breakdown reimbursement.Breakdown `json:"breakdown"`
}

// NewResultDocument converts a result for encoding.
func NewResultDocument(result reimbursement.Result) ResultDocument {
	return ResultDocument{
		Days:      result.Trip.Days,
		Miles:     result.Trip.Miles,
		Receipts:  result.Trip.Receipts,
		Amount:    result.String(),
		Breakdown: result.Breakdown,
	}
}

// PlainFormat writes the bare amount with two decimals and a newline.
func PlainFormat(w io.Writer, result reimbursement.Result) error {
	_, err := fmt.Fprintln(w, result.String())
	return err
}

// JSONFormat writes the amount and its breakdown as indented JSON.
func JSONFormat(w io.Writer, result reimbursement.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewResultDocument(result))
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result reimbursement.Result) error {
	p := message.NewPrinter(language.English)
	b := result.Breakdown
	trip := result.Trip

	rows := []struct {
		label string
		value string
	}{
		{"Zone", b.Zone.String()},
		{"Miles per day", p.Sprintf("%.2f", b.MilesPerDay)},
		{"Receipts per day", format.CurrencyFloat(b.ReceiptsPerDay)},
		{"Base per diem", format.CurrencyFloat(b.BasePerDiem)},
		{"Mileage", format.CurrencyFloat(b.Mileage)},
		{"Receipts", receiptCell(b)},
		{"Subtotal", format.CurrencyFloat(b.Subtotal)},
		{"Total", format.Currency(result.Amount)},
	}

	var sb strings.Builder
	_, _ = p.Fprintf(&sb, "--- Reimbursement for %d-day trip, %.2f miles, %s receipts ---\n",
		trip.Days, trip.Miles, format.CurrencyFloat(trip.Receipts))
	sb.WriteString("Component        | Amount\n")
	sb.WriteString("_________        | ______\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "%-16s | %s\n", row.label, row.value)
	}
	if len(b.Notes) > 0 {
		fmt.Fprintf(&sb, "Notes: %s\n", strings.Join(b.Notes, ", "))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func receiptCell(b reimbursement.Breakdown) string {
	if b.ReceiptsIgnored {
		return format.CurrencyFloat(0) + " (ignored)"
	}
	return fmt.Sprintf("%s (last tier rate %.2f)", format.CurrencyFloat(b.Receipts), b.LastTierRate)
}

// Write dispatches on one of the single-evaluation output formats.
func Write(w io.Writer, outputFormat string, result reimbursement.Result) error {
	switch outputFormat {
	case constants.OutputFormatJSON:
		return JSONFormat(w, result)
	case constants.OutputFormatPretty:
		return PrettyFormat(w, result)
	default:
		return PlainFormat(w, result)
	}
}
