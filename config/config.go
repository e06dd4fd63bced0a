// Package config loads replay run configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Run describes one ledger replay: where the recorded streams live, the
// accounting parameters, and where artifacts go. Monetary fields are kept as
// strings in the file and parsed to decimals on demand, so a config file
// never routes money through binary floats.
type Run struct {
	RunID        string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Market       string `json:"market,omitempty" yaml:"market,omitempty"`
	StartingCash string `json:"starting_cash" yaml:"starting_cash"`
	FeeRateBps   string `json:"fee_rate_bps,omitempty" yaml:"fee_rate_bps,omitempty"`
	MarkMethod   string `json:"mark_method,omitempty" yaml:"mark_method,omitempty"`
	EventsFile   string `json:"events_file" yaml:"events_file"`
	BookFile     string `json:"book_file" yaml:"book_file"`
	OutDir       string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`
}

// LoadRun loads a run configuration from a file (YAML or JSON).
func LoadRun(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config: %w", err)
	}

	run := &Run{}
	if err := yaml.Unmarshal(data, run); err != nil {
		if jsonErr := json.Unmarshal(data, run); jsonErr != nil {
			return nil, fmt.Errorf("parse run config (tried YAML and JSON): %w", err)
		}
	}
	if err := run.validate(); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *Run) validate() error {
	if r.StartingCash == "" {
		return fmt.Errorf("run config: starting_cash is required")
	}
	if _, err := decimal.NewFromString(r.StartingCash); err != nil {
		return fmt.Errorf("run config: invalid starting_cash %q: %w", r.StartingCash, err)
	}
	if r.FeeRateBps != "" {
		if _, err := decimal.NewFromString(r.FeeRateBps); err != nil {
			return fmt.Errorf("run config: invalid fee_rate_bps %q: %w", r.FeeRateBps, err)
		}
	}
	if r.EventsFile == "" || r.BookFile == "" {
		return fmt.Errorf("run config: events_file and book_file are required")
	}
	return nil
}

// StartingCashDecimal parses the starting cash amount.
func (r *Run) StartingCashDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(r.StartingCash)
	return d
}

// FeeRateBpsDecimal parses the optional fee rate; nil means unset, letting
// the ledger fall back to its conservative default.
func (r *Run) FeeRateBpsDecimal() *decimal.Decimal {
	if r.FeeRateBps == "" {
		return nil
	}
	d, _ := decimal.NewFromString(r.FeeRateBps)
	return &d
}
