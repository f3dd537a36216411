package custodian

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// The canonical persistence format is JSONL: one JSON object per line,
// human readable, and easy to merge or diff.

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeRecords decodes transaction records from a JSONL stream.
// Records are returned in file order; callers sort before processing.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("cannot parse record on line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read records: %w", err)
	}
	return records, nil
}

// EncodeRecords writes transaction records to 'w' in the canonical JSONL
// form, one record per line, preserving the given order.
func EncodeRecords(w io.Writer, records []Record) error {
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("cannot marshal record on %s: %w", rec.Date, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}

// DecodeOpenings decodes opening balances from a JSONL stream. The same
// format is written by EncodeSnapshot, so a saved snapshot seeds a later run.
func DecodeOpenings(r io.Reader) ([]Opening, error) {
	var openings []Opening
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var o Opening
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("cannot parse opening balance on line %d: %w", line, err)
		}
		openings = append(openings, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read opening balances: %w", err)
	}
	return openings, nil
}

// EncodeSnapshot writes the holdings snapshot to 'w', one position per line.
// Closed positions are written too: the quantity-zero entry documents that
// the basis was consumed.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	for _, pos := range s.Positions {
		o := Opening{
			Symbol:      pos.Symbol,
			Date:        s.Date,
			Quantity:    pos.Quantity,
			AverageCost: pos.AverageCost.value,
		}
		data, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("cannot marshal position %q: %w", pos.Symbol, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}

// EncodeGains writes realized gains to 'w', one record per line, in
// emission order.
func EncodeGains(w io.Writer, gains []RealizedGain) error {
	for _, g := range gains {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("cannot marshal gain on %s: %w", g.Date, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}
