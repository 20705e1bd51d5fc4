// Package reimbursement evaluates the travel reimbursement rules: a base per
// diem, tiered mileage and a zone-dependent receipt schedule, followed by an
// ordered adjustment pipeline and a final sanity clamp.
//
// Every stage is a pure function of the trip and the rule table, so an Engine
// is safe for concurrent use.
package reimbursement

import (
	"fmt"

	"github.com/iwvelando/reimburse/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine evaluates trips against an immutable rule table.
type Engine struct {
	rules  Rules
	logger *zap.Logger
}

// Result is the reimbursement for one trip.
type Result struct {
	Trip      Trip            `json:"trip"`
	Amount    decimal.Decimal `json:"amount"`
	Breakdown Breakdown       `json:"breakdown"`
}

// Breakdown records how the amount was reached.
type Breakdown struct {
	Zone            Zone     `json:"zone"`
	MilesPerDay     float64  `json:"milesPerDay"`
	ReceiptsPerDay  float64  `json:"receiptsPerDay"`
	BasePerDiem     float64  `json:"basePerDiem"`
	Mileage         float64  `json:"mileage"`
	Receipts        float64  `json:"receipts"`
	LastTierRate    float64  `json:"lastTierRate"`
	ReceiptsIgnored bool     `json:"receiptsIgnored"`
	Subtotal        float64  `json:"subtotal"`
	CapLimit        float64  `json:"capLimit,omitempty"`
	Notes           []string `json:"notes,omitempty"`
}

// Float returns the amount as a float64.
func (r Result) Float() float64 {
	f, _ := r.Amount.Float64()
	return f
}

// String formats the amount with exactly two fractional digits.
func (r Result) String() string {
	return r.Amount.StringFixed(2)
}

// New validates the rule table and builds an engine around a private copy
// of it.
func New(logger *zap.Logger, rules Rules) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reimbursement rules: %w", err)
	}
	return &Engine{rules: rules.Clone(), logger: logger}, nil
}

// NewDefault builds an engine around DefaultRules.
func NewDefault(logger *zap.Logger) *Engine {
	engine, err := New(logger, DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("default reimbursement rules are invalid: %v", err))
	}
	return engine
}

// Rules returns a copy of the engine's rule table.
func (e *Engine) Rules() Rules {
	return e.rules.Clone()
}

// Calculate validates the raw inputs and evaluates the trip.
func (e *Engine) Calculate(days int, miles, receipts float64) (Result, error) {
	trip, _, err := Normalize(days, miles, receipts)
	if err != nil {
		return Result{}, err
	}
	return e.Evaluate(trip), nil
}

// Evaluate runs the rule pipeline on a trip returned by Normalize or
// ParseTrip.
func (e *Engine) Evaluate(trip Trip) Result {
	r := e.rules
	m := trip.Metrics()

	zone := r.Zones.Classify(m.MilesPerDay)
	mileage := r.MileageAmount(trip.Miles)
	receipts := r.Receipts.Compensate(trip, m, zone)

	l := &ledger{
		base:     r.PerDiem.Base(trip.Days),
		receipts: receipts.Amount,
		ignored:  receipts.Ignored,
	}
	if receipts.Ignored {
		l.note("receipts ignored")
	}
	if receipts.Corrected {
		l.note("receipts above %.2f re-priced at %.2f", r.Receipts.HighReceiptCorrection.Threshold,
			r.Receipts.HighReceiptCorrection.Rate)
	}
	r.Adjustments.apply(trip, m, l)

	subtotal := l.base + mileage + l.receipts
	total, limit := r.Bounds.Enforce(trip, m, subtotal)
	if limit != 0 {
		l.note("capped at %.2f", limit)
	}

	result := Result{
		Trip:   trip,
		Amount: mathutil.Cents(total),
		Breakdown: Breakdown{
			Zone:            zone,
			MilesPerDay:     m.MilesPerDay,
			ReceiptsPerDay:  m.ReceiptsPerDay,
			BasePerDiem:     l.base,
			Mileage:         mileage,
			Receipts:        l.receipts,
			LastTierRate:    receipts.LastRate,
			ReceiptsIgnored: receipts.Ignored,
			Subtotal:        subtotal,
			CapLimit:        limit,
			Notes:           l.notes,
		},
	}

	e.logger.Debug("reimbursement computed",
		zap.String("op", "reimbursement.Evaluate"),
		zap.Int("days", trip.Days),
		zap.Float64("miles", trip.Miles),
		zap.Float64("receipts", trip.Receipts),
		zap.Stringer("zone", zone),
		zap.Float64("base", l.base),
		zap.Float64("mileage", mileage),
		zap.Float64("receiptComponent", l.receipts),
		zap.String("amount", result.String()),
	)

	return result
}
