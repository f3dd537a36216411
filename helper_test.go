package custodian

import (
	"testing"

	"github.com/shopspring/decimal"
)

// q parses an exact quantity literal.
func q(s string) Quantity {
	v, err := ParseQuantity(s)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// d parses an exact decimal literal.
func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// cad returns an exact CAD money literal.
func cad(s string) Money {
	return M(d(s), "CAD")
}

// newTestLedger creates an empty CAD-reporting ledger.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := NewLedger("CAD")
	if err != nil {
		t.Fatalf("NewLedger() failed: %v", err)
	}
	return ledger
}

// newFundedLedger creates a CAD-reporting ledger seeded with the opening
// balances used throughout the documented scenarios: 10000 CAD at cost 1,
// 10000 USD at cost 1.35.
func newFundedLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger := newTestLedger(t)
	ledger.Seed(
		Opening{Symbol: "CAD", Date: MustParseDate("2023-01-01"), Quantity: q("10000"), AverageCost: d("1")},
		Opening{Symbol: "USD", Date: MustParseDate("2023-01-01"), Quantity: q("10000"), AverageCost: d("1.35")},
	)
	return ledger
}

// positionEqual fails the test unless the symbol holds exactly the given
// quantity and average cost.
func positionEqual(t *testing.T, ledger *Ledger, symbol, wantQty, wantAvg string) {
	t.Helper()
	pos, ok := ledger.Get(symbol)
	if !ok {
		t.Fatalf("no position for %q", symbol)
	}
	if !pos.Quantity.Equal(q(wantQty)) {
		t.Errorf("position %q quantity = %s, want %s", symbol, pos.Quantity, wantQty)
	}
	if !pos.AverageCost.Equal(M(d(wantAvg), ledger.ReportingCurrency())) {
		t.Errorf("position %q average cost = %s, want %s", symbol, pos.AverageCost, wantAvg)
	}
}
