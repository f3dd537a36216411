// Package renderer turns the core result types into markdown reports.
// It is a pure formatting layer: it reads snapshots and gains reports and
// never touches a ledger.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/custodian"
)

// HoldingsMarkdown renders the holdings snapshot as a markdown table.
// Closed positions are listed too: the quantity-zero row documents that the
// basis was consumed.
func HoldingsMarkdown(s *custodian.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings on %s\n\n", s.Date)
	fmt.Fprintf(&b, "Reporting currency: %s\n\n", s.ReportingCurrency)
	fmt.Fprintln(&b, "| Symbol | Quantity | Average Cost | Cost Basis |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")

	for _, pos := range s.Positions {
		avg := pos.AverageCost.String()
		if pos.Quantity.IsZero() {
			avg = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			pos.Symbol,
			pos.Quantity,
			avg,
			pos.CostBasis().String(),
		)
	}
	return b.String()
}

// GainsMarkdown renders the year-by-year capital gains summary as markdown,
// one section per calendar year with per-symbol subtotals.
func GainsMarkdown(report *custodian.GainsReport) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Capital Gains Report\n\n")
	fmt.Fprintf(&b, "Reporting currency: %s\n\n", report.ReportingCurrency)

	if len(report.Years) == 0 {
		fmt.Fprintln(&b, "No realized gains.")
		return b.String()
	}

	for _, year := range report.Years {
		fmt.Fprintf(&b, "## %d\n\n", year.Year)
		fmt.Fprintln(&b, "| Symbol | Disposals | Gain |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, sym := range year.Symbols {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", sym.Symbol, sym.Disposals, sym.Gain.SignedString())
		}
		fmt.Fprintf(&b, "| **Total** | | **%s** |\n\n", year.Gain.SignedString())
		fmt.Fprintf(&b, "Proceeds %s against a cost basis of %s.\n\n", year.Proceeds, year.CostBasis)
	}

	fmt.Fprintf(&b, "**Net realized gain: %s**\n", report.Total.SignedString())
	return b.String()
}

// GainsLogMarkdown renders the raw stream of realized gains as one table,
// in emission order.
func GainsLogMarkdown(gains []custodian.RealizedGain) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Realized Gains\n\n")
	fmt.Fprintln(&b, "| Date | Symbol | Quantity | Proceeds | Cost Basis | Gain |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, g := range gains {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			g.Date, g.Symbol, g.Quantity, g.Proceeds, g.CostBasis, g.Gain.SignedString())
	}
	return b.String()
}
