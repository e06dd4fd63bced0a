package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/polysim/simtrader"
)

// resolveCmd holds the flags for the 'resolve' subcommand.
type resolveCmd struct{}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "look up how a market resolved" }
func (*resolveCmd) Usage() string {
	return `stc resolve <market-slug> [...]

  Fetches each market's resolution state from the Gamma API. Responses are
  disk-cached for a day.
`
}

func (c *resolveCmd) SetFlags(f *flag.FlagSet) {}

func (c *resolveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one market slug is required")
		return subcommands.ExitUsageError
	}

	status := subcommands.ExitSuccess
	for _, slug := range f.Args() {
		res, err := simtrader.LookupResolution(nil, slug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving %q: %v\n", slug, err)
			status = subcommands.ExitFailure
			continue
		}

		switch {
		case !res.Closed:
			fmt.Printf("%s: still trading\n", slug)
		case res.Resolved():
			winner, _ := res.WinningOutcome()
			fmt.Printf("%s: resolved %s\n", slug, winner)
		default:
			prices := make([]string, 0, len(res.OutcomePrices))
			for _, p := range res.OutcomePrices {
				prices = append(prices, p.String())
			}
			fmt.Printf("%s: closed, awaiting payout (prices %s)\n", slug, strings.Join(prices, "/"))
		}
	}
	return status
}
