package custodian

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// this file contains the external-collaborator mappings from tabular or JSON
// sources to transaction records. Every imported record is validated on
// construction, before it ever reaches the processor.

// ImportCSV reads transaction records from a CSV stream. The first row is a
// header naming the columns; date, base, quote, quantity and price are
// required, description, fees and note are optional. Column order is free.
func ImportCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "base", "quote", "quantity", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV line %d: %w", line, err)
		}

		day, err := ParseDate(field(row, "date"))
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		quantity, err := ParseQuantity(field(row, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: invalid quantity: %w", line, err)
		}
		price, err := decimal.NewFromString(field(row, "price"))
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: invalid price: %w", line, err)
		}
		fees := decimal.Zero
		if s := field(row, "fees"); s != "" {
			fees, err = decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("CSV line %d: invalid fees: %w", line, err)
			}
		}

		rec := NewRecord(day, field(row, "description"), field(row, "base"), field(row, "quote"), quantity, price, fees)
		rec.Note = field(row, "note")
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// JSONMapping maps a broker's JSON export onto transaction records with one
// jsonpath expression per field. Records selects the array of rows in the
// document; the field expressions are evaluated against each row.
// Description, Fees and Note are optional and may be left empty.
type JSONMapping struct {
	Records     string `yaml:"records"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Base        string `yaml:"base"`
	Quote       string `yaml:"quote"`
	Quantity    string `yaml:"quantity"`
	Price       string `yaml:"price"`
	Fees        string `yaml:"fees"`
	Note        string `yaml:"note"`
}

// ImportJSON reads transaction records from an arbitrary JSON export, using
// the mapping's jsonpath expressions to locate the fields.
func ImportJSON(r io.Reader, m JSONMapping) ([]Record, error) {
	// UseNumber keeps quantities and prices as their exact decimal text.
	var doc interface{}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse JSON document: %w", err)
	}

	rows, err := jsonpath.Get(m.Records, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot locate records at %q: %w", m.Records, err)
	}
	list, ok := rows.([]interface{})
	if !ok {
		return nil, fmt.Errorf("records path %q does not select an array", m.Records)
	}

	var records []Record
	for i, row := range list {
		day, err := dateAt(row, m.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		base, err := stringAt(row, m.Base)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		quote, err := stringAt(row, m.Quote)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		quantity, err := decimalAt(row, m.Quantity)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		price, err := decimalAt(row, m.Price)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		fees := decimal.Zero
		if m.Fees != "" {
			fees, err = decimalAt(row, m.Fees)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		description := ""
		if m.Description != "" {
			if description, err = stringAt(row, m.Description); err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
		}

		rec := NewRecord(day, description, base, quote, Quantity{value: quantity}, price, fees)
		if m.Note != "" {
			if rec.Note, err = stringAt(row, m.Note); err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func valueAt(row interface{}, path string) (interface{}, error) {
	val, err := jsonpath.Get(path, row)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer:
	if list, ok := val.([]interface{}); ok && len(list) == 1 {
		val = list[0]
	}
	return val, nil
}

func stringAt(row interface{}, path string) (string, error) {
	val, err := valueAt(row, path)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("value at %q is not a string: %v", path, val)
	}
	return s, nil
}

func dateAt(row interface{}, path string) (Date, error) {
	s, err := stringAt(row, path)
	if err != nil {
		return Date{}, err
	}
	return ParseDate(s)
}

func decimalAt(row interface{}, path string) (decimal.Decimal, error) {
	val, err := valueAt(row, path)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch v := val.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("value at %q is not a number: %v", path, val)
	}
}
