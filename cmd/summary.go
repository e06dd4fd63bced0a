package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/polysim/simtrader"
	"github.com/polysim/simtrader/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	summaryFile string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the accounting summary of a replayed run" }
func (*summaryCmd) Usage() string {
	return `stc summary [-f <summary.json>]

  Renders a run's summary.json artifact as a report in the terminal.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.summaryFile, "f", "summary.json", "Summary artifact to display.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	file, err := os.Open(c.summaryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening summary %q: %v\n", c.summaryFile, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	summary, err := simtrader.DecodeSummary(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding summary %q: %v\n", c.summaryFile, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SummaryMarkdown(&summary))
	return subcommands.ExitSuccess
}
