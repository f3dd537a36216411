package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/custodian"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	format      string
	mappingFile string
	outputFile  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "converts broker exports into transaction records" }
func (*importCmd) Usage() string {
	return `ctd import [-format csv|json] [-mapping <file>] [-o <records_file>] <export_file>

  Reads a broker export and converts each row into a transaction record,
  appending the result to the records file in canonical JSONL form.

  CSV exports need a header line with at least the date, base, quote,
  quantity and price columns. JSON exports need a mapping file (YAML)
  giving a JSON path for each record field.

Usage Examples:
# Appends the rows of trades.csv to the configured records file.
$ ctd import -format csv trades.csv

# Converts a broker JSON export using a field mapping.
$ ctd import -format json -mapping broker.yaml export.json

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "csv", "Export format (csv, json)")
	f.StringVar(&c.mappingFile, "mapping", "", "YAML field mapping, required for json exports")
	f.StringVar(&c.outputFile, "o", "", "Records file to append to. Defaults to the configured file.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one export file to import")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	out := c.outputFile
	if out == "" {
		out = cfg.Records
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	var imported []custodian.Record
	switch c.format {
	case "csv":
		imported, err = custodian.ImportCSV(in)
	case "json":
		var m custodian.JSONMapping
		m, err = loadMapping(c.mappingFile)
		if err == nil {
			imported, err = custodian.ImportJSON(in, m)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	// Merge with the existing records so the output stays canonical.
	records, err := loadRecords(cfg, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load records: %v\n", err)
		return subcommands.ExitFailure
	}
	records = append(records, imported...)
	custodian.SortRecords(records)

	if err := writeRecords(out, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving records: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Imported %d records into %q.\n", len(imported), out)
	return subcommands.ExitSuccess
}

func loadMapping(file string) (custodian.JSONMapping, error) {
	var m custodian.JSONMapping
	if file == "" {
		return m, fmt.Errorf("json imports need a -mapping file")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing mapping %q: %w", file, err)
	}
	return m, nil
}
