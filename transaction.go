package custodian

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// Record is one row of intent: the acquisition or disposal of a quantity of
// Base, priced in Quote. Records are read-only inputs; the processor never
// mutates them.
//
// The sign of Quantity classifies the record: positive acquires Base,
// negative disposes of it. A currency conversion is an ordinary acquisition
// whose Base is itself a currency, and a vesting or grant event is an
// ordinary acquisition whose Price carries the fair-market value with zero
// fees. The processor has no special path for either.
type Record struct {
	Date        Date
	Description string
	Base        string   // symbol acquired or disposed
	Quote       string   // currency Price and Fees are denominated in
	Quantity    Quantity // signed, exact
	Price       decimal.Decimal
	Fees        decimal.Decimal
	Note        string
}

// NewRecord creates a transaction record.
func NewRecord(day Date, description, base, quote string, quantity Quantity, price, fees decimal.Decimal) Record {
	return Record{
		Date:        day,
		Description: description,
		Base:        base,
		Quote:       quote,
		Quantity:    quantity,
		Price:       price,
		Fees:        fees,
	}
}

// PriceMoney returns the per-unit price as Money in the quote currency.
func (r Record) PriceMoney() Money { return Money{value: r.Price, cur: r.Quote} }

// FeesMoney returns the fees as Money in the quote currency.
func (r Record) FeesMoney() Money { return Money{value: r.Fees, cur: r.Quote} }

// IsAcquisition reports whether the record acquires Base.
func (r Record) IsAcquisition() bool { return r.Quantity.IsPositive() }

// Validate checks the record's fields upfront, before it ever reaches the
// processor. A violation is reported as a MalformedTransactionError.
func (r Record) Validate() error {
	reason := ""
	switch {
	case r.Date.IsZero():
		reason = "date is missing"
	case r.Base == "":
		reason = "base symbol is missing"
	case r.Quote == "":
		reason = "quote symbol is missing"
	case r.Quantity.IsZero():
		reason = "quantity is zero, a transaction must move quantity"
	case r.Price.IsNegative():
		reason = "price is negative"
	case r.Fees.IsNegative():
		reason = "fees are negative"
	}
	if reason == "" {
		return nil
	}
	return &MalformedTransactionError{Date: r.Date, Base: r.Base, Quote: r.Quote, Reason: reason}
}

// Equal reports whether two records are identical.
func (r Record) Equal(o Record) bool {
	return r.Date == o.Date &&
		r.Description == o.Description &&
		r.Base == o.Base &&
		r.Quote == o.Quote &&
		r.Quantity.Equal(o.Quantity) &&
		r.Price.Equal(o.Price) &&
		r.Fees.Equal(o.Fees) &&
		r.Note == o.Note
}

// SortRecords sorts records by date ascending. The sort is stable: records on
// the same day keep their original relative order, which defines the
// processing order for ties.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

// MarshalJSON implements the json.Marshaler interface for Record,
// keeping a stable field order in the canonical JSONL form.
func (r Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date)
	w.Optional("description", r.Description)
	w.Append("base", r.Base)
	w.Append("quote", r.Quote)
	w.Append("quantity", r.Quantity)
	w.Append("price", r.Price)
	w.Append("fees", r.Fees)
	w.Optional("note", r.Note)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var temp struct {
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Base        string          `json:"base"`
		Quote       string          `json:"quote"`
		Quantity    Quantity        `json:"quantity"`
		Price       decimal.Decimal `json:"price"`
		Fees        decimal.Decimal `json:"fees"`
		Note        string          `json:"note"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*r = Record{
		Date:        temp.Date,
		Description: temp.Description,
		Base:        temp.Base,
		Quote:       temp.Quote,
		Quantity:    temp.Quantity,
		Price:       temp.Price,
		Fees:        temp.Fees,
		Note:        temp.Note,
	}
	return nil
}
