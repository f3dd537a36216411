package custodian

import (
	"errors"
	"testing"
)

func TestLedger_RequiresReportingCurrency(t *testing.T) {
	if _, err := NewLedger(""); err == nil {
		t.Error("NewLedger(\"\") expected an error, got nil")
	}
	if _, err := NewLedger("XXQ"); err == nil {
		t.Error("NewLedger(\"XXQ\") expected an error for unknown code, got nil")
	}
	if _, err := NewLedger("CAD"); err != nil {
		t.Errorf("NewLedger(\"CAD\") failed: %v", err)
	}
}

func TestLedger_AcquireWeightedAverage(t *testing.T) {
	testCases := []struct {
		name    string
		buys    [][2]string // quantity, unit cost
		wantQty string
		wantAvg string
	}{
		{
			name:    "first acquisition sets the average",
			buys:    [][2]string{{"10", "204.18075"}},
			wantQty: "10",
			wantAvg: "204.18075",
		},
		{
			name:    "second acquisition reweights",
			buys:    [][2]string{{"10", "100"}, {"10", "200"}},
			wantQty: "20",
			wantAvg: "150",
		},
		{
			name:    "uneven sizes weight accordingly",
			buys:    [][2]string{{"1", "100"}, {"3", "200"}},
			wantQty: "4",
			wantAvg: "175",
		},
		{
			name:    "order of same-day batches does not matter",
			buys:    [][2]string{{"3", "200"}, {"1", "100"}},
			wantQty: "4",
			wantAvg: "175",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := newTestLedger(t)
			for _, buy := range tc.buys {
				ledger.Acquire("AAPL", q(buy[0]), cad(buy[1]))
			}
			positionEqual(t, ledger, "AAPL", tc.wantQty, tc.wantAvg)
		})
	}
}

func TestLedger_DisposalLeavesAverageUntouched(t *testing.T) {
	ledger := newTestLedger(t)
	ledger.Acquire("AAPL", q("10"), cad("204.18075"))

	if _, err := ledger.Dispose("AAPL", q("5"), false); err != nil {
		t.Fatalf("Dispose() failed: %v", err)
	}
	positionEqual(t, ledger, "AAPL", "5", "204.18075")
}

func TestLedger_ResetOnClose(t *testing.T) {
	ledger := newTestLedger(t)
	ledger.Acquire("AAPL", q("10"), cad("100"))

	// Dispose the whole position. The entry is retained at quantity zero.
	if _, err := ledger.Dispose("AAPL", q("10"), false); err != nil {
		t.Fatalf("Dispose() failed: %v", err)
	}
	pos, ok := ledger.Get("AAPL")
	if !ok {
		t.Fatal("closed position should be retained in the ledger")
	}
	if !pos.Quantity.IsZero() {
		t.Errorf("closed position quantity = %s, want 0", pos.Quantity)
	}

	// Re-acquiring establishes a fresh average, independent of the old one.
	ledger.Acquire("AAPL", q("4"), cad("250"))
	positionEqual(t, ledger, "AAPL", "4", "250")
}

func TestLedger_OverDisposal(t *testing.T) {
	ledger := newTestLedger(t)
	ledger.Acquire("AAPL", q("10"), cad("100"))

	// One unit more than held fails and nothing changes.
	_, err := ledger.Dispose("AAPL", q("11"), false)
	var over *OverDisposalError
	if !errors.As(err, &over) {
		t.Fatalf("Dispose() error = %v, want OverDisposalError", err)
	}
	if over.Symbol != "AAPL" || !over.Requested.Equal(q("11")) || !over.Held.Equal(q("10")) {
		t.Errorf("OverDisposalError = %+v, want AAPL 11 of 10", over)
	}
	positionEqual(t, ledger, "AAPL", "10", "100")

	// Exactly the held quantity succeeds.
	if _, err := ledger.Dispose("AAPL", q("10"), false); err != nil {
		t.Errorf("Dispose() of exact held quantity failed: %v", err)
	}

	// The short-position policy lifts the guard.
	if _, err := ledger.Dispose("AAPL", q("5"), true); err != nil {
		t.Errorf("Dispose() with allowShort failed: %v", err)
	}
}

func TestLedger_CostPerUnit(t *testing.T) {
	ledger := newFundedLedger(t)

	testCases := []struct {
		name    string
		symbol  string
		want    string
		wantErr bool
	}{
		{name: "reporting currency is exactly 1", symbol: "CAD", want: "1"},
		{name: "funded currency resolves to its basis", symbol: "USD", want: "1.35"},
		{name: "unfunded currency fails", symbol: "EUR", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ledger.CostPerUnit(tc.symbol)
			if tc.wantErr {
				var unresolved *UnresolvedCurrencyError
				if !errors.As(err, &unresolved) {
					t.Fatalf("CostPerUnit(%q) error = %v, want UnresolvedCurrencyError", tc.symbol, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CostPerUnit(%q) failed: %v", tc.symbol, err)
			}
			if !got.Equal(cad(tc.want)) {
				t.Errorf("CostPerUnit(%q) = %s, want %s", tc.symbol, got, tc.want)
			}
		})
	}
}

func TestLedger_CostPerUnit_ClosedPosition(t *testing.T) {
	ledger := newTestLedger(t)
	ledger.Acquire("USD", q("100"), cad("1.35"))
	if _, err := ledger.Dispose("USD", q("100"), false); err != nil {
		t.Fatalf("Dispose() failed: %v", err)
	}

	// A fully closed position carries no basis, so it cannot price anything.
	if _, err := ledger.CostPerUnit("USD"); err == nil {
		t.Error("CostPerUnit() on a closed position expected an error, got nil")
	}
}

func TestLedger_Clone(t *testing.T) {
	ledger := newFundedLedger(t)
	clone := ledger.Clone()

	clone.Acquire("AAPL", q("10"), cad("100"))
	if _, ok := ledger.Get("AAPL"); ok {
		t.Error("mutating a clone must not touch the original ledger")
	}
	if _, ok := clone.Get("AAPL"); !ok {
		t.Error("clone should hold the acquired position")
	}
}

func TestSnapshot_Openings(t *testing.T) {
	ledger := newFundedLedger(t)
	ledger.Acquire("AAPL", q("10"), cad("204.18075"))
	if _, err := ledger.Dispose("AAPL", q("10"), false); err != nil {
		t.Fatalf("Dispose() failed: %v", err)
	}

	snap := NewSnapshot(MustParseDate("2024-12-31"), ledger)
	openings := snap.Openings()

	// AAPL is closed: it must not be carried forward.
	for _, o := range openings {
		if o.Symbol == "AAPL" {
			t.Errorf("closed position %q should not produce an opening", o.Symbol)
		}
	}
	if len(openings) != 2 {
		t.Fatalf("got %d openings, want 2 (CAD and USD)", len(openings))
	}

	// Seeding a fresh ledger from the snapshot reproduces the positions.
	reseeded := newTestLedger(t)
	reseeded.Seed(openings...)
	positionEqual(t, reseeded, "CAD", "10000", "1")
	positionEqual(t, reseeded, "USD", "10000", "1.35")
}
