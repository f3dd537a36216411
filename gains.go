package custodian

import (
	"maps"
	"slices"
)

// RealizedGain records one disposal: the proceeds net of fees, the cost basis
// removed from the ledger, and their difference, all in the reporting
// currency. Records are immutable once emitted.
type RealizedGain struct {
	Date      Date
	Symbol    string
	Quantity  Quantity // positive magnitude disposed
	Proceeds  Money    // net of fees
	CostBasis Money    // quantity * average cost at time of disposal
	Gain      Money    // Proceeds - CostBasis
}

// MarshalJSON implements the json.Marshaler interface for RealizedGain.
func (g RealizedGain) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", g.Date)
	w.Append("symbol", g.Symbol)
	w.Append("quantity", g.Quantity)
	w.Append("proceeds", g.Proceeds)
	w.Append("costBasis", g.CostBasis)
	w.Append("gain", g.Gain)
	return w.MarshalJSON()
}

// SymbolGains subtotals the realized gains of one symbol within a year.
type SymbolGains struct {
	Symbol    string
	Disposals int
	Gain      Money
}

// YearGains sums the realized gains of one calendar year.
type YearGains struct {
	Year      int
	Proceeds  Money
	CostBasis Money
	Gain      Money
	Symbols   []SymbolGains
}

// GainsReport is the year-by-year capital gains summary: net realized
// gain/loss per calendar year with per-symbol subtotals.
type GainsReport struct {
	ReportingCurrency string
	Years             []YearGains
	Total             Money
}

// NewGainsReport reduces a stream of realized gains into yearly totals.
// It is a pure function over the already-computed stream: deterministic,
// re-runnable, and independent of the order of the input records.
func NewGainsReport(reportingCurrency string, gains []RealizedGain) *GainsReport {
	report := &GainsReport{
		ReportingCurrency: reportingCurrency,
		Total:             M(0, reportingCurrency),
	}

	type key struct {
		year   int
		symbol string
	}
	years := make(map[int]YearGains)
	symbols := make(map[key]SymbolGains)

	for _, g := range gains {
		y := g.Date.Year()
		yg, ok := years[y]
		if !ok {
			yg = YearGains{
				Year:      y,
				Proceeds:  M(0, reportingCurrency),
				CostBasis: M(0, reportingCurrency),
				Gain:      M(0, reportingCurrency),
			}
		}
		yg.Proceeds = yg.Proceeds.Add(g.Proceeds)
		yg.CostBasis = yg.CostBasis.Add(g.CostBasis)
		yg.Gain = yg.Gain.Add(g.Gain)
		years[y] = yg

		k := key{year: y, symbol: g.Symbol}
		sg, ok := symbols[k]
		if !ok {
			sg = SymbolGains{Symbol: g.Symbol, Gain: M(0, reportingCurrency)}
		}
		sg.Disposals++
		sg.Gain = sg.Gain.Add(g.Gain)
		symbols[k] = sg

		report.Total = report.Total.Add(g.Gain)
	}

	for _, y := range slices.Sorted(maps.Keys(years)) {
		yg := years[y]
		var names []string
		for k := range symbols {
			if k.year == y {
				names = append(names, k.symbol)
			}
		}
		slices.Sort(names)
		for _, name := range names {
			yg.Symbols = append(yg.Symbols, symbols[key{year: y, symbol: name}])
		}
		report.Years = append(report.Years, yg)
	}
	return report
}

// Year returns the totals of a given calendar year, and whether any disposal
// was realized that year.
func (r *GainsReport) Year(year int) (YearGains, bool) {
	for _, yg := range r.Years {
		if yg.Year == year {
			return yg, true
		}
	}
	return YearGains{}, false
}
