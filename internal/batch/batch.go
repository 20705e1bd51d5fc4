// Package batch evaluates many trips in parallel and scores the results
// against expected outputs when the case file carries them.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/iwvelando/reimburse/internal/reimbursement"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/iwvelando/reimburse/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Input is one trip in the case file format.
type Input struct {
	Days     int     `json:"trip_duration_days"`
	Miles    float64 `json:"miles_traveled"`
	Receipts float64 `json:"total_receipts_amount"`
}

// Case is one entry of a case file. Expected is optional.
type Case struct {
	Input    Input    `json:"input"`
	Expected *float64 `json:"expected_output,omitempty"`
}

// Evaluator is the part of the engine a batch needs.
type Evaluator interface {
	Evaluate(trip reimbursement.Trip) reimbursement.Result
}

// Outcome is the evaluation of the case at Index. Err is set, and Result is
// empty, when the case failed validation.
type Outcome struct {
	Index  int
	Case   Case
	Result reimbursement.Result
	Err    error
}

// Failed reports whether the case was rejected.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// AbsError returns |result - expected|. ok is false when the case failed or
// has no expected value.
func (o Outcome) AbsError() (delta float64, ok bool) {
	if o.Failed() || o.Case.Expected == nil {
		return 0, false
	}
	return math.Abs(o.Result.Float() - *o.Case.Expected), true
}

// Load decodes a JSON case file.
func Load(r io.Reader) ([]Case, error) {
	var cases []Case
	if err := json.NewDecoder(r).Decode(&cases); err != nil {
		return nil, fmt.Errorf("failed to decode cases: %w", err)
	}
	return cases, nil
}

// LoadFile reads and decodes the case file at path.
func LoadFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open case file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}

// Evaluate runs every case through the engine on at most workers goroutines
// and returns the outcomes in input order. A case that fails validation is
// recorded in its outcome; only cancellation of ctx fails the batch.
func Evaluate(ctx context.Context, logger *zap.Logger, engine Evaluator, cases []Case, workers int) ([]Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]Outcome, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range cases {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			c := cases[i]
			outcomes[i] = Outcome{Index: i, Case: c}
			trip, _, err := reimbursement.Normalize(c.Input.Days, c.Input.Miles, c.Input.Receipts)
			if err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Result = engine.Evaluate(trip)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch evaluation interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch evaluation interrupted: %w", err)
	}

	logger.Debug("batch evaluated",
		zap.String("op", "batch.Evaluate"),
		zap.Int("cases", len(cases)),
		zap.Int("workers", workers),
	)
	return outcomes, nil
}

// Summary scores a batch against its expected outputs.
type Summary struct {
	Count        int     `json:"count"`
	Failed       int     `json:"failed"`
	Scored       int     `json:"scored"`
	Exact        int     `json:"exactMatches"`
	Close        int     `json:"closeMatches"`
	MeanAbsError float64 `json:"meanAbsError"`
	MaxAbsError  float64 `json:"maxAbsError"`
	WorstIndex   int     `json:"worstIndex"`
}

// Summarize computes match counts and error statistics. Exact matches are
// within a cent, close matches within a dollar. WorstIndex is -1 when no
// outcome was scored.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Count: len(outcomes), WorstIndex: -1}

	total := 0.0
	for _, o := range outcomes {
		if o.Failed() {
			s.Failed++
			continue
		}
		delta, ok := o.AbsError()
		if !ok {
			continue
		}
		s.Scored++
		total += delta
		if mathutil.WithinTolerance(delta, 0, constants.CurrencyTolerance) {
			s.Exact++
		}
		if mathutil.WithinTolerance(delta, 0, constants.CloseMatchTolerance) {
			s.Close++
		}
		if s.WorstIndex == -1 || delta > s.MaxAbsError {
			s.MaxAbsError = delta
			s.WorstIndex = o.Index
		}
	}

	if s.Scored > 0 {
		s.MeanAbsError = total / float64(s.Scored)
	}
	return s
}
