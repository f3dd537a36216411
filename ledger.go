package custodian

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Position is the lot position of one symbol: its running quantity and the
// weighted average cost per unit in the reporting currency.
//
// AverageCost is meaningful only while Quantity is positive. When a position
// is fully closed the entry is retained at quantity zero and the next
// acquisition establishes a fresh average, because a closed position carries
// no basis forward.
type Position struct {
	Symbol      string
	Quantity    Quantity
	AverageCost Money // per unit, in the reporting currency
}

// CostBasis returns the total cost basis of the position
// (quantity times average cost).
func (p Position) CostBasis() Money { return p.AverageCost.Mul(p.Quantity) }

// Ledger is the holdings ledger: a mapping from asset or currency symbol to
// its current Position. Currencies and tradable assets share this single
// symbol space with no behavioral distinction.
//
// A Ledger is the one mutable state of a processing run and is exclusively
// owned by it. It is not safe for concurrent mutation; callers running
// what-if scenarios should Clone it rather than share it.
type Ledger struct {
	reporting string
	positions map[string]Position
}

// NewLedger creates an empty ledger reporting in the given currency.
// The reporting currency is mandatory: there is no silent default.
func NewLedger(reportingCurrency string) (*Ledger, error) {
	if err := ValidateCurrency(reportingCurrency); err != nil {
		return nil, fmt.Errorf("invalid reporting currency: %w", err)
	}
	return &Ledger{
		reporting: reportingCurrency,
		positions: make(map[string]Position),
	}, nil
}

// ValidateCurrency checks that a currency code is a known ISO 4217 code.
func ValidateCurrency(code string) error {
	if code == "" {
		return fmt.Errorf("currency code is empty")
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// ReportingCurrency returns the currency all cost bases and gains are
// expressed in.
func (l *Ledger) ReportingCurrency() string { return l.reporting }

// Get returns the position held for a symbol, and whether one exists.
func (l *Ledger) Get(symbol string) (Position, bool) {
	pos, ok := l.positions[symbol]
	return pos, ok
}

// CostPerUnit resolves the reporting-currency cost of one unit of a symbol.
// The reporting currency itself always resolves to exactly 1. Any other
// symbol resolves to its current average cost, which must have been
// established by an earlier funding, conversion or acquisition; otherwise the
// resolution fails with an UnresolvedCurrencyError.
//
// This is a pure read of current ledger state, not a historical price
// lookup: it deliberately reuses the cost-basis machinery itself to price
// currencies.
func (l *Ledger) CostPerUnit(symbol string) (Money, error) {
	if symbol == l.reporting {
		return M(1, l.reporting), nil
	}
	pos, ok := l.positions[symbol]
	if !ok || !pos.Quantity.IsPositive() {
		return Money{}, &UnresolvedCurrencyError{Symbol: symbol}
	}
	return pos.AverageCost, nil
}

// ValueOf converts an amount denominated in any held currency into the
// reporting currency, at the ledger's current cost basis for that currency.
func (l *Ledger) ValueOf(amount Money) (Money, error) {
	unit, err := l.CostPerUnit(amount.Currency())
	if err != nil {
		return Money{}, err
	}
	return Money{value: amount.value.Mul(unit.value), cur: l.reporting}, nil
}

// Acquire adds delta units of a symbol at the given unit cost (reporting
// currency), recomputing the weighted average cost of the position:
//
//	newAvg = (oldQty*oldAvg + delta*unitCost) / (oldQty + delta)
//
// When the prior quantity is zero or the symbol is new, the unit cost becomes
// the average directly, discarding any stale basis from a closed position.
func (l *Ledger) Acquire(symbol string, delta Quantity, unitCost Money) Position {
	pos, ok := l.positions[symbol]
	if !ok {
		pos = Position{Symbol: symbol, AverageCost: M(decimal.Zero, l.reporting)}
	}
	if pos.Quantity.IsPositive() {
		total := pos.AverageCost.Mul(pos.Quantity).Add(unitCost.Mul(delta))
		pos.Quantity = pos.Quantity.Add(delta)
		pos.AverageCost = total.Div(pos.Quantity)
	} else {
		pos.Quantity = pos.Quantity.Add(delta)
		pos.AverageCost = unitCost
	}
	l.positions[symbol] = pos
	return pos
}

// Dispose removes magnitude units of a symbol. The average cost is a property
// of the remaining position, not of the disposed portion, so it is left
// untouched. Disposing more than held is an OverDisposalError unless
// allowShort is set.
func (l *Ledger) Dispose(symbol string, magnitude Quantity, allowShort bool) (Position, error) {
	pos := l.positions[symbol]
	if magnitude.GreaterThan(pos.Quantity) && !allowShort {
		return pos, &OverDisposalError{Symbol: symbol, Requested: magnitude, Held: pos.Quantity}
	}
	if pos.Symbol == "" {
		pos.Symbol = symbol
		pos.AverageCost = M(decimal.Zero, l.reporting)
	}
	pos.Quantity = pos.Quantity.Sub(magnitude)
	l.positions[symbol] = pos
	return pos, nil
}

// Seed installs opening balances, semantically equivalent to processing a
// synthetic acquisition per entry before the real stream begins.
func (l *Ledger) Seed(openings ...Opening) {
	for _, o := range openings {
		l.Acquire(o.Symbol, o.Quantity, M(o.AverageCost, l.reporting))
	}
}

// Clone returns a deep copy of the ledger, for callers that need atomicity
// across a whole run: process a private copy and swap it in on full success.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{reporting: l.reporting, positions: maps.Clone(l.positions)}
}

// Positions iterates over all positions in symbol order, including retained
// entries at quantity zero.
func (l *Ledger) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		symbols := slices.Collect(maps.Keys(l.positions))
		slices.Sort(symbols)
		for _, symbol := range symbols {
			if !yield(l.positions[symbol]) {
				return
			}
		}
	}
}

// Opening is one opening balance used to seed a ledger: the state of a symbol
// carried in from before the transaction stream starts. The funding
// mechanism exists precisely to seed currencies before any trading starts.
type Opening struct {
	Symbol      string
	Date        Date
	Quantity    Quantity
	AverageCost decimal.Decimal // per unit, in the reporting currency
}

// MarshalJSON implements the json.Marshaler interface for Opening.
func (o Opening) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", o.Symbol)
	w.Optional("date", o.Date)
	w.Append("quantity", o.Quantity)
	w.Append("averageCost", o.AverageCost)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Opening.
func (o *Opening) UnmarshalJSON(data []byte) error {
	var temp struct {
		Symbol      string          `json:"symbol"`
		Date        Date            `json:"date"`
		Quantity    Quantity        `json:"quantity"`
		AverageCost decimal.Decimal `json:"averageCost"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*o = Opening{Symbol: temp.Symbol, Date: temp.Date, Quantity: temp.Quantity, AverageCost: temp.AverageCost}
	return nil
}

// Snapshot captures the holdings ledger at a point in time, suitable for
// tabular display by an external formatter or for seeding a later run.
type Snapshot struct {
	Date              Date
	ReportingCurrency string
	Positions         []Position
}

// NewSnapshot captures the current state of the ledger.
func NewSnapshot(on Date, l *Ledger) *Snapshot {
	s := &Snapshot{Date: on, ReportingCurrency: l.reporting}
	for pos := range l.Positions() {
		s.Positions = append(s.Positions, pos)
	}
	return s
}

// Openings converts the snapshot into opening balances for a new run.
// Closed positions are dropped: they carry no basis forward.
func (s *Snapshot) Openings() []Opening {
	var openings []Opening
	for _, pos := range s.Positions {
		if pos.Quantity.IsZero() {
			continue
		}
		openings = append(openings, Opening{
			Symbol:      pos.Symbol,
			Date:        s.Date,
			Quantity:    pos.Quantity,
			AverageCost: pos.AverageCost.value,
		})
	}
	return openings
}
