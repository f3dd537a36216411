// Package cmd implements the subcommands of the ctd command line tool.
package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/custodian"
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&processCmd{}, "ledger")
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")

	c.Register(&fmtCmd{}, "records")
	c.Register(&importCmd{}, "records")

	c.Register(&topicCmd{}, "help")
}

var configFile = flag.String("config", "custodian.yaml", "Path to the custodian configuration file")

// loadRecords reads the transaction records named in the configuration,
// overridden by file when non-empty.
func loadRecords(cfg *Config, file string) ([]custodian.Record, error) {
	if file == "" {
		file = cfg.Records
	}
	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, records file %q does not exist, starting empty", file)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return custodian.DecodeRecords(f)
}

// loadOpenings reads the opening positions file if one is configured.
// A missing file is not an error, the ledger simply starts empty.
func loadOpenings(cfg *Config) ([]custodian.Opening, error) {
	if cfg.Openings == "" {
		return nil, nil
	}
	f, err := os.Open(cfg.Openings)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return custodian.DecodeOpenings(f)
}

// run replays the configured records through a fresh processor and returns
// the resulting ledger and realized gains.
func run(cfg *Config, file string) (*custodian.Ledger, []custodian.RealizedGain, error) {
	openings, err := loadOpenings(cfg)
	if err != nil {
		return nil, nil, err
	}
	records, err := loadRecords(cfg, file)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := custodian.NewLedger(cfg.Currency)
	if err != nil {
		return nil, nil, err
	}
	ledger.Seed(openings...)
	p := custodian.NewProcessor(ledger)
	p.AllowShort = cfg.AllowShort
	p.StrictOrder = cfg.StrictOrder
	if err := p.ProcessAll(records); err != nil {
		return nil, nil, err
	}
	return p.Ledger(), p.Gains(), nil
}
