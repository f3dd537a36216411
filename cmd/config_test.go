package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/custodian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custodian.yaml")
	data := "currency: CAD\nrecords: book.jsonl\nallow_short: true\n"
	require.NoError(t, os.WriteFile(file, []byte(data), 0o644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "CAD", cfg.Currency)
	assert.Equal(t, "book.jsonl", cfg.Records)
	assert.True(t, cfg.AllowShort)
	assert.False(t, cfg.StrictOrder)
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Currency)
	assert.Equal(t, "transactions.jsonl", cfg.Records)
}

func TestLoadConfig_Invalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custodian.yaml")
	require.NoError(t, os.WriteFile(file, []byte("currency: [not a string"), 0o644))

	_, err := LoadConfig(file)
	assert.Error(t, err)
}

func TestRunPipeline(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "book.jsonl")
	data := `{"date":"2024-01-05","base":"CAD","quote":"CAD","quantity":10000,"price":1,"fees":0}
{"date":"2024-01-10","base":"AAPL","quote":"CAD","quantity":10,"price":150,"fees":5}
{"date":"2024-06-01","base":"AAPL","quote":"CAD","quantity":-4,"price":180,"fees":5}
`
	require.NoError(t, os.WriteFile(records, []byte(data), 0o644))

	cfg := &Config{Currency: "CAD", Records: records}
	ledger, gains, err := run(cfg, "")
	require.NoError(t, err)

	pos, ok := ledger.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, "6", pos.Quantity.String())

	require.Len(t, gains, 1)
	assert.Equal(t, "AAPL", gains[0].Symbol)
}

func TestRunPipeline_SeedsOpenings(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "book.jsonl")
	require.NoError(t, os.WriteFile(records, []byte(""), 0o644))
	openings := filepath.Join(dir, "openings.jsonl")
	seed := `{"symbol":"USD","quantity":500,"averageCost":1.35}
`
	require.NoError(t, os.WriteFile(openings, []byte(seed), 0o644))

	cfg := &Config{Currency: "CAD", Records: records, Openings: openings}
	ledger, gains, err := run(cfg, "")
	require.NoError(t, err)
	assert.Empty(t, gains)

	pos, ok := ledger.Get("USD")
	require.True(t, ok)
	assert.Equal(t, "500", pos.Quantity.String())
	assert.True(t, pos.AverageCost.Equal(custodian.M(1.35, "CAD")))
}
