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

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	currency    string
	recordsFile string
	on          string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "current positions and their adjusted cost basis" }
func (*holdingsCmd) Usage() string {
	return `ctd holdings [-c <currency>] [-l <records_file>]

  Replays the records and displays each symbol with its quantity, average
  cost per unit and total cost basis, all in the reporting currency.
  Closed positions show with a zero quantity.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Reporting currency, overrides the configuration file")
	f.StringVar(&c.recordsFile, "l", "", "Records file to report on. Defaults to the configured file.")
	f.StringVar(&c.on, "d", custodian.Today().String(), "Date to stamp on the report")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := custodian.ParseDate(c.on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing report date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, _, err := run(cfg, c.recordsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing records: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.HoldingsMarkdown(custodian.NewSnapshot(on, ledger))
	printMarkdown(md)

	return subcommands.ExitSuccess
}
