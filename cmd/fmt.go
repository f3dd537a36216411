package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/custodian"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	recordsFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the records file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ctd fmt [-l <records_file>]

  Validates and formats the records file. This command reads all records,
  validates them, sorts them by date, and writes them back in a canonical
  JSONL format.

Usage Examples:
# Rewrites the configured records file in place.
$ ctd fmt

`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.recordsFile, "l", "", "Records file to format. Defaults to the configured file.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	file := c.recordsFile
	if file == "" {
		file = cfg.Records
	}

	records, err := loadRecords(cfg, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load records: %v\n", err)
		return subcommands.ExitFailure
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: record %d is invalid: %v\n", i+1, err)
			return subcommands.ExitFailure
		}
	}
	custodian.SortRecords(records)

	if err := writeRecords(file, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted records: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %d records into %q.\n", len(records), file)
	return subcommands.ExitSuccess
}

func writeRecords(file string, records []custodian.Record) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return custodian.EncodeRecords(f, records)
}
