package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the per-book settings read from custodian.yaml.
type Config struct {
	// Currency is the reporting currency of the book, e.g. "CAD".
	Currency string `yaml:"currency"`
	// Records is the path of the transaction records file (JSONL format).
	Records string `yaml:"records"`
	// Openings is the path of the opening positions file, empty for none.
	Openings string `yaml:"openings"`
	// AllowShort permits disposals beyond the held quantity.
	AllowShort bool `yaml:"allow_short"`
	// StrictOrder rejects records arriving out of date order instead of sorting them.
	StrictOrder bool `yaml:"strict_order"`
}

// LoadConfig reads the configuration file at path. A missing file yields the
// default configuration, everything else must parse.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Records: "transactions.jsonl"}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	if cfg.Records == "" {
		cfg.Records = "transactions.jsonl"
	}
	return cfg, nil
}

// loadConfig resolves the -config flag and applies the command line currency
// override when non-empty.
func loadConfig(currency string) (*Config, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if currency != "" {
		cfg.Currency = currency
	}
	if cfg.Currency == "" {
		return nil, fmt.Errorf("no reporting currency: set 'currency' in %s or pass -c", *configFile)
	}
	return cfg, nil
}
