package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/custodian"
	"github.com/etnz/custodian/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	currency    string
	recordsFile string
	year        int
	log         bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized capital gains by calendar year" }
func (*gainsCmd) Usage() string {
	return `ctd gains [-c <currency>] [-l <records_file>] [-year <year>] [-log]

  Replays the records and displays realized capital gains aggregated by
  calendar year and symbol. Use -year to restrict the report to one year,
  and -log to list every disposal instead of the aggregated view.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Reporting currency, overrides the configuration file")
	f.StringVar(&c.recordsFile, "l", "", "Records file to report on. Defaults to the configured file.")
	f.IntVar(&c.year, "year", 0, "Restrict the report to a single calendar year")
	f.BoolVar(&c.log, "log", false, "List every realized gain instead of the yearly summary")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	_, gains, err := run(cfg, c.recordsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing records: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.log {
		printMarkdown(renderer.GainsLogMarkdown(gains))
		return subcommands.ExitSuccess
	}

	report := custodian.NewGainsReport(cfg.Currency, gains)
	if c.year != 0 {
		year, ok := report.Year(c.year)
		if !ok {
			fmt.Fprintf(os.Stderr, "No realized gains in %d.\n", c.year)
			return subcommands.ExitSuccess
		}
		report.Years = []custodian.YearGains{year}
		report.Total = year.Gain
	}

	printMarkdown(renderer.GainsMarkdown(report))
	return subcommands.ExitSuccess
}
