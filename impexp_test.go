package custodian

import (
	"strings"
	"testing"
)

func TestImportCSV(t *testing.T) {
	in := strings.NewReader(`date,description,base,quote,quantity,price,fees,note
2024-03-01,buy AAPL,AAPL,USD,10,150.25,9.95,
2024-06-01,sell half,AAPL,USD,-5,175.50,9.95,partial exit
`)
	records, err := ImportCSV(in)
	if err != nil {
		t.Fatalf("ImportCSV() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	want := NewRecord(MustParseDate("2024-03-01"), "buy AAPL", "AAPL", "USD", q("10"), d("150.25"), d("9.95"))
	if !records[0].Equal(want) {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
	if records[1].Note != "partial exit" {
		t.Errorf("records[1].Note = %q, want %q", records[1].Note, "partial exit")
	}
}

func TestImportCSV_ColumnOrderIsFree(t *testing.T) {
	in := strings.NewReader(`price,quantity,base,quote,date
150.25,10,AAPL,USD,2024-03-01
`)
	records, err := ImportCSV(in)
	if err != nil {
		t.Fatalf("ImportCSV() failed: %v", err)
	}
	if len(records) != 1 || records[0].Base != "AAPL" || !records[0].Quantity.Equal(q("10")) {
		t.Errorf("unexpected records: %+v", records)
	}
	// Fees default to zero when the column is absent.
	if !records[0].Fees.IsZero() {
		t.Errorf("fees = %s, want 0", records[0].Fees)
	}
}

func TestImportCSV_Errors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{
			name: "missing required column",
			in:   "date,base,quote,quantity\n2024-03-01,AAPL,USD,10\n",
		},
		{
			name: "invalid quantity",
			in:   "date,base,quote,quantity,price\n2024-03-01,AAPL,USD,ten,150\n",
		},
		{
			name: "malformed row rejected at import",
			in:   "date,base,quote,quantity,price\n2024-03-01,AAPL,USD,0,150\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportCSV(strings.NewReader(tc.in)); err == nil {
				t.Error("ImportCSV() expected an error, got nil")
			}
		})
	}
}

func TestImportJSON(t *testing.T) {
	in := strings.NewReader(`{
	  "account": "broker-1",
	  "trades": [
	    {"executed": "2024-03-01", "symbol": "AAPL", "ccy": "USD", "units": 10, "unitPrice": 150.25, "commission": 9.95, "label": "buy AAPL"},
	    {"executed": "2024-06-01", "symbol": "AAPL", "ccy": "USD", "units": -5, "unitPrice": 175.50, "commission": 9.95, "label": "sell half"}
	  ]
	}`)

	mapping := JSONMapping{
		Records:     "$.trades",
		Date:        "$.executed",
		Description: "$.label",
		Base:        "$.symbol",
		Quote:       "$.ccy",
		Quantity:    "$.units",
		Price:       "$.unitPrice",
		Fees:        "$.commission",
	}

	records, err := ImportJSON(in, mapping)
	if err != nil {
		t.Fatalf("ImportJSON() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	want := NewRecord(MustParseDate("2024-03-01"), "buy AAPL", "AAPL", "USD", q("10"), d("150.25"), d("9.95"))
	if !records[0].Equal(want) {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
	// The numbers survive exactly, not as binary floating point.
	if !records[1].Price.Equal(d("175.50")) {
		t.Errorf("price = %s, want 175.50", records[1].Price)
	}
}

func TestImportJSON_Errors(t *testing.T) {
	mapping := JSONMapping{
		Records:  "$.trades",
		Date:     "$.executed",
		Base:     "$.symbol",
		Quote:    "$.ccy",
		Quantity: "$.units",
		Price:    "$.unitPrice",
	}

	testCases := []struct {
		name string
		in   string
	}{
		{name: "not json", in: "not json"},
		{name: "records path misses", in: `{"other": []}`},
		{name: "records path is not an array", in: `{"trades": {"a": 1}}`},
		{name: "field path misses", in: `{"trades": [{"symbol": "AAPL"}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportJSON(strings.NewReader(tc.in), mapping); err == nil {
				t.Error("ImportJSON() expected an error, got nil")
			}
		})
	}
}
