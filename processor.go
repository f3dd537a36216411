package custodian

import (
	"errors"
	"fmt"
	"slices"
)

// Processor consumes transaction records one at a time, in chronological
// order, and mutates a Ledger through its own cost-basis resolution. Each
// disposal emits one RealizedGain.
//
// Processing is strictly sequential: average costs and currency valuations
// are stateful and order-dependent, so an acquisition must precede any later
// disposal or currency use that depends on it. A Processor owns its Ledger
// for the duration of the run.
type Processor struct {
	// AllowShort permits disposals beyond the held quantity. Off by
	// default: the documented scenarios never short.
	AllowShort bool
	// StrictOrder rejects a record dated before the last applied one
	// instead of relying on the caller's pre-sort.
	StrictOrder bool

	ledger *Ledger
	gains  []RealizedGain
	last   Date
}

// NewProcessor creates a processor mutating the given ledger.
func NewProcessor(ledger *Ledger) *Processor {
	return &Processor{ledger: ledger}
}

// Ledger returns the ledger the processor mutates.
func (p *Processor) Ledger() *Ledger { return p.ledger }

// Gains returns the realized gains emitted so far, in emission order.
// It returns a copy: mutating it cannot corrupt the emitted stream.
func (p *Processor) Gains() []RealizedGain { return slices.Clone(p.gains) }

// Process validates and applies a single record. It returns the emitted
// RealizedGain for a disposal, or nil for an acquisition.
//
// On error the record is not applied and the ledger is left exactly as of the
// last successfully applied record. The caller must not continue past a
// failure: ledger state beyond that point would be unsound.
func (p *Processor) Process(r Record) (*RealizedGain, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if p.StrictOrder && !p.last.IsZero() && r.Date.Before(p.last) {
		return nil, &OutOfOrderError{Date: r.Date, Last: p.last}
	}

	// Resolve the quote currency before mutating anything, so the rate
	// reflects ledger state prior to this record.
	unitQuote, err := p.ledger.CostPerUnit(r.Quote)
	if err != nil {
		return nil, dated(err, r.Date)
	}

	magnitude := r.Quantity.Abs()
	gross := p.ledger.convert(r.PriceMoney().Mul(magnitude), unitQuote)
	fee := p.ledger.convert(r.FeesMoney(), unitQuote)

	if r.IsAcquisition() {
		unitCost := gross.Add(fee).Div(r.Quantity)
		p.ledger.Acquire(r.Base, r.Quantity, unitCost)
		p.last = r.Date
		return nil, nil
	}

	// Disposal: the cost basis removed is priced at the average cost of the
	// position before this record touches it. Only the covered units carry
	// basis: the uncovered part of a short removes none, so a one-shot
	// short realizes the same basis as the equivalent split disposals.
	avg := M(0, p.ledger.reporting)
	covered := magnitude
	if pos, ok := p.ledger.Get(r.Base); ok && pos.Quantity.IsPositive() {
		avg = pos.AverageCost
		if pos.Quantity.LessThan(magnitude) {
			covered = pos.Quantity
		}
	} else {
		covered = Q(0)
	}
	if _, err := p.ledger.Dispose(r.Base, magnitude, p.AllowShort); err != nil {
		return nil, dated(err, r.Date)
	}

	gain := RealizedGain{
		Date:      r.Date,
		Symbol:    r.Base,
		Quantity:  magnitude,
		Proceeds:  gross.Sub(fee),
		CostBasis: avg.Mul(covered),
	}
	gain.Gain = gain.Proceeds.Sub(gain.CostBasis)
	p.gains = append(p.gains, gain)
	p.last = r.Date
	return &gain, nil
}

// ProcessAll applies records in chronological order, pre-sorting them stably
// unless StrictOrder is set, in which case the input order is taken as is and
// must be non-decreasing.
//
// It stops at the first invalid record: there is no best-effort continuation,
// because subsequent records may depend on the basis that failed to update.
// Gains emitted before the failure remain available through Gains, so callers
// can inspect exactly how far processing got.
func (p *Processor) ProcessAll(records []Record) error {
	if !p.StrictOrder {
		sorted := make([]Record, len(records))
		copy(sorted, records)
		SortRecords(sorted)
		records = sorted
	}
	for i, r := range records {
		if _, err := p.Process(r); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return nil
}

// Process is the one-call form: it seeds a fresh ledger with the opening
// balances, runs all records through a processor, and returns the final
// ledger and the realized gains.
func Process(reportingCurrency string, openings []Opening, records []Record) (*Ledger, []RealizedGain, error) {
	ledger, err := NewLedger(reportingCurrency)
	if err != nil {
		return nil, nil, err
	}
	ledger.Seed(openings...)
	p := NewProcessor(ledger)
	if err := p.ProcessAll(records); err != nil {
		return ledger, p.Gains(), err
	}
	return ledger, p.Gains(), nil
}

// convert prices an amount of quote currency in the reporting currency at the
// already-resolved unit cost.
func (l *Ledger) convert(amount Money, unitQuote Money) Money {
	return Money{value: amount.value.Mul(unitQuote.value), cur: l.reporting}
}

// dated stamps the record's date onto ledger errors that carry one.
func dated(err error, on Date) error {
	var unresolved *UnresolvedCurrencyError
	if errors.As(err, &unresolved) {
		unresolved.Date = on
		return unresolved
	}
	var over *OverDisposalError
	if errors.As(err, &over) {
		over.Date = on
		return over
	}
	return err
}
