package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/oklog/ulid/v2"

	"github.com/polysim/simtrader"
	"github.com/polysim/simtrader/config"
	"github.com/polysim/simtrader/renderer"
)

// replayCmd holds the flags for the 'replay' subcommand.
type replayCmd struct {
	configFile string
	runID      string
	quiet      bool
}

func (*replayCmd) Name() string     { return "replay" }
func (*replayCmd) Synopsis() string { return "replay a recorded run and write its accounting artifacts" }
func (*replayCmd) Usage() string {
	return `stc replay -c <run.yaml> [-run-id <id>] [-q]

  Replays a recorded order-event log against its book timeline and writes
  ledger.jsonl, equity.jsonl and summary.json into the run's output
  directory. Re-running on the same input produces byte-identical files.
`
}

func (c *replayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configFile, "c", "run.yaml", "Run configuration file (YAML or JSON).")
	f.StringVar(&c.runID, "run-id", "", "Run identifier. Defaults to the config value, or a fresh ULID.")
	f.BoolVar(&c.quiet, "q", false, "Do not render the summary to the terminal.")
}

func (c *replayCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	run, err := config.LoadRun(c.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading run config: %v\n", err)
		return subcommands.ExitUsageError
	}

	runID := c.runID
	if runID == "" {
		runID = run.RunID
	}
	if runID == "" {
		runID = ulid.Make().String()
	}

	markMethod := simtrader.MarkBid
	if run.MarkMethod != "" {
		markMethod, err = simtrader.ParseMarkMethod(run.MarkMethod)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}

	ledger, err := simtrader.NewLedger(run.StartingCashDecimal(), run.FeeRateBpsDecimal(), markMethod)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger: %v\n", err)
		return subcommands.ExitUsageError
	}

	events, err := decodeEventsFile(run.EventsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	book, err := decodeBookFile(run.BookFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledgerRows, equityRows := ledger.Process(events, book)

	var finalBook simtrader.BookRow
	if len(book) > 0 {
		finalBook = book[len(book)-1]
	}
	summary := ledger.Summary(runID, finalBook.BestBid, finalBook.BestAsk)

	outDir := run.OutDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir %q: %v\n", outDir, err)
		return subcommands.ExitFailure
	}

	if err := writeArtifact(filepath.Join(outDir, "ledger.jsonl"), func(w *os.File) error {
		return simtrader.EncodeLedgerRows(w, ledgerRows)
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := writeArtifact(filepath.Join(outDir, "equity.jsonl"), func(w *os.File) error {
		return simtrader.EncodeEquityRows(w, equityRows)
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := writeArtifact(filepath.Join(outDir, "summary.json"), func(w *os.File) error {
		return simtrader.EncodeSummary(w, summary)
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if !c.quiet {
		printMarkdown(renderer.SummaryMarkdown(&summary))
	}
	return subcommands.ExitSuccess
}

func decodeEventsFile(path string) ([]simtrader.OrderEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening events file %q: %w", path, err)
	}
	defer f.Close()
	events, err := simtrader.DecodeOrderEvents(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding events file %q: %w", path, err)
	}
	return events, nil
}

func decodeBookFile(path string) ([]simtrader.BookRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening book file %q: %w", path, err)
	}
	defer f.Close()
	rows, err := simtrader.DecodeBookTimeline(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding book file %q: %w", path, err)
	}
	return rows, nil
}

func writeArtifact(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %q: %w", path, err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		return fmt.Errorf("error writing %q: %w", path, err)
	}
	return nil
}
