package custodian

import "fmt"

// The processing errors below identify the offending record by date and
// symbols, so a caller can locate and fix the source row before re-running
// from a saved snapshot. They are matchable with errors.As.

// MalformedTransactionError reports a record rejected by construction-time
// validation, before any ledger mutation.
type MalformedTransactionError struct {
	Date   Date
	Base   string
	Quote  string
	Reason string
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("malformed transaction on %s (%s/%s): %s", e.Date, e.Base, e.Quote, e.Reason)
}

// UnresolvedCurrencyError reports a record quoting in a currency that has no
// cost basis in the ledger: it was never funded or acquired.
type UnresolvedCurrencyError struct {
	Date   Date
	Symbol string
}

func (e *UnresolvedCurrencyError) Error() string {
	return fmt.Sprintf("on %s, no cost basis for %q: fund or acquire it first", e.Date, e.Symbol)
}

// OverDisposalError reports a disposal exceeding the currently held quantity.
type OverDisposalError struct {
	Date      Date
	Symbol    string
	Requested Quantity
	Held      Quantity
}

func (e *OverDisposalError) Error() string {
	return fmt.Sprintf("on %s, cannot dispose of %s %s: only %s held", e.Date, e.Requested, e.Symbol, e.Held)
}

// OutOfOrderError reports, in strict-order mode, a record dated earlier than
// the last successfully applied one.
type OutOfOrderError struct {
	Date Date
	Last Date
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("record dated %s arrives after %s was already applied", e.Date, e.Last)
}
