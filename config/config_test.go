package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRunYAML(t *testing.T) {
	path := writeConfig(t, "run.yaml", `
run_id: demo-run
market: will-it-rain
starting_cash: "1000"
fee_rate_bps: "200"
mark_method: midpoint
events_file: events.jsonl
book_file: book.jsonl
out_dir: out
`)

	run, err := LoadRun(path)
	require.NoError(t, err)

	assert.Equal(t, "demo-run", run.RunID)
	assert.Equal(t, "will-it-rain", run.Market)
	assert.Equal(t, "midpoint", run.MarkMethod)
	assert.Equal(t, "events.jsonl", run.EventsFile)
	assert.Equal(t, "out", run.OutDir)

	assert.True(t, run.StartingCashDecimal().Equal(decimal.RequireFromString("1000")))
	rate := run.FeeRateBpsDecimal()
	require.NotNil(t, rate)
	assert.True(t, rate.Equal(decimal.RequireFromString("200")))
}

func TestLoadRunJSON(t *testing.T) {
	path := writeConfig(t, "run.json", `{
	"starting_cash": "500.50",
	"events_file": "events.jsonl",
	"book_file": "book.jsonl"
}`)

	run, err := LoadRun(path)
	require.NoError(t, err)
	assert.True(t, run.StartingCashDecimal().Equal(decimal.RequireFromString("500.50")))
}

func TestLoadRunOptionalFeeRate(t *testing.T) {
	path := writeConfig(t, "run.yaml", `
starting_cash: "1000"
events_file: events.jsonl
book_file: book.jsonl
`)

	run, err := LoadRun(path)
	require.NoError(t, err)
	assert.Nil(t, run.FeeRateBpsDecimal(), "unset fee rate must stay nil for the ledger default")
}

func TestLoadRunValidation(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "missing starting cash",
			content: `
events_file: events.jsonl
book_file: book.jsonl
`,
		},
		{
			name: "non-decimal starting cash",
			content: `
starting_cash: "a lot"
events_file: events.jsonl
book_file: book.jsonl
`,
		},
		{
			name: "bad fee rate",
			content: `
starting_cash: "1000"
fee_rate_bps: "two hundred"
events_file: events.jsonl
book_file: book.jsonl
`,
		},
		{
			name: "missing input files",
			content: `
starting_cash: "1000"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "run.yaml", tc.content)
			_, err := LoadRun(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRunMissingFile(t *testing.T) {
	_, err := LoadRun(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRunUnparseable(t *testing.T) {
	path := writeConfig(t, "run.yaml", "\t{{not yaml or json")
	_, err := LoadRun(path)
	assert.Error(t, err)
}
