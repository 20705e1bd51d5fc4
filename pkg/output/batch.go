package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/reimburse/internal/batch"
	"github.com/iwvelando/reimburse/internal/reimbursement"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/iwvelando/reimburse/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OutcomeDocument is the JSON shape of one batch case.
type OutcomeDocument struct {
	Index    int      `json:"index"`
	Days     int      `json:"days"`
	Miles    float64  `json:"miles"`
	Receipts float64  `json:"receipts"`
	Expected *float64 `json:"expected,omitempty"`
	Amount   string   `json:"amount,omitempty"`
	Error    string   `json:"error,omitempty"`
	Kind     string   `json:"kind,omitempty"`
}

// BatchDocument is the JSON shape of a batch run.
type BatchDocument struct {
	Outcomes []OutcomeDocument `json:"outcomes"`
	Summary  batch.Summary     `json:"summary"`
}

// NewBatchDocument converts outcomes and their summary for encoding.
func NewBatchDocument(outcomes []batch.Outcome, summary batch.Summary) BatchDocument {
	doc := BatchDocument{Outcomes: make([]OutcomeDocument, 0, len(outcomes)), Summary: summary}
	for _, o := range outcomes {
		d := OutcomeDocument{
			Index:    o.Index,
			Days:     o.Case.Input.Days,
			Miles:    o.Case.Input.Miles,
			Receipts: o.Case.Input.Receipts,
			Expected: o.Case.Expected,
		}
		if o.Failed() {
			d.Error = o.Err.Error()
			d.Kind = string(reimbursement.KindOf(o.Err))
		} else {
			d.Amount = o.Result.String()
		}
		doc.Outcomes = append(doc.Outcomes, d)
	}
	return doc
}

// BatchJSONFormat writes the outcomes and summary as indented JSON.
func BatchJSONFormat(w io.Writer, outcomes []batch.Outcome, summary batch.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewBatchDocument(outcomes, summary))
}

// BatchCsvFormat outputs one row per case in comma-separated value format.
func BatchCsvFormat(w io.Writer, outcomes []batch.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "days", "miles", "receipts", "expected", "amount", "error"}); err != nil {
		return err
	}
	for _, o := range outcomes {
		record := []string{
			strconv.Itoa(o.Index),
			strconv.Itoa(o.Case.Input.Days),
			strconv.FormatFloat(o.Case.Input.Miles, 'f', -1, 64),
			strconv.FormatFloat(o.Case.Input.Receipts, 'f', 2, 64),
			"",
			"",
			"",
		}
		if o.Case.Expected != nil {
			record[4] = strconv.FormatFloat(*o.Case.Expected, 'f', 2, 64)
		}
		if o.Failed() {
			record[6] = o.Err.Error()
		} else {
			record[5] = o.Result.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BatchPrettyFormat outputs a human-readable table followed by the summary.
func BatchPrettyFormat(w io.Writer, outcomes []batch.Outcome, summary batch.Summary) error {
	p := message.NewPrinter(language.English)

	var sb strings.Builder
	sb.WriteString("Case  | Days | Miles     | Receipts    | Expected    | Amount\n")
	sb.WriteString("____  | ____ | _____     | ________    | ________    | ______\n")
	for _, o := range outcomes {
		expected := "-"
		if o.Case.Expected != nil {
			expected = format.CurrencyFloat(*o.Case.Expected)
		}
		var amount string
		if o.Failed() {
			amount = "error: " + o.Err.Error()
		} else {
			amount = format.Currency(o.Result.Amount)
		}
		_, _ = p.Fprintf(&sb, "%-5d | %-4d | %-9.1f | %-11s | %-11s | %s\n",
			o.Index, o.Case.Input.Days, o.Case.Input.Miles,
			format.CurrencyFloat(o.Case.Input.Receipts), expected, amount)
	}

	sb.WriteString("\n")
	_, _ = p.Fprintf(&sb, "Cases: %d (%d failed)\n", summary.Count, summary.Failed)
	if summary.Scored > 0 {
		_, _ = p.Fprintf(&sb, "Exact matches (±%.2f): %d\n", constants.CurrencyTolerance, summary.Exact)
		_, _ = p.Fprintf(&sb, "Close matches (±%.2f): %d\n", constants.CloseMatchTolerance, summary.Close)
		_, _ = p.Fprintf(&sb, "Mean absolute error: %.2f\n", summary.MeanAbsError)
		_, _ = p.Fprintf(&sb, "Max absolute error: %.2f (case %d)\n", summary.MaxAbsError, summary.WorstIndex)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteBatch dispatches on one of the batch output formats.
func WriteBatch(w io.Writer, outputFormat string, outcomes []batch.Outcome, summary batch.Summary) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return BatchCsvFormat(w, outcomes)
	case constants.OutputFormatJSON:
		return BatchJSONFormat(w, outcomes, summary)
	case constants.OutputFormatPretty:
		return BatchPrettyFormat(w, outcomes, summary)
	default:
		return fmt.Errorf("unsupported batch output format %q", outputFormat)
	}
}
