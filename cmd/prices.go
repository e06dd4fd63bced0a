package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/polysim/simtrader/pricecache"
)

var cachePath = flag.String("price-cache", "prices.db", "Path to the SQLite price-history cache")

// pricesImportCmd imports a recorded book timeline into the price cache.
type pricesImportCmd struct {
	market   string
	bookFile string
}

func (*pricesImportCmd) Name() string     { return "prices-import" }
func (*pricesImportCmd) Synopsis() string { return "import a recorded book timeline into the price cache" }
func (*pricesImportCmd) Usage() string {
	return `stc prices-import -m <market-slug> -b <book.jsonl>

  Stores a recorded top-of-book timeline in the local SQLite cache so the
  tape can be replayed later without the original recording.
`
}

func (c *pricesImportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "m", "", "Market slug the timeline belongs to.")
	f.StringVar(&c.bookFile, "b", "book.jsonl", "Book timeline file (JSONL).")
}

func (c *pricesImportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.market == "" {
		fmt.Fprintln(os.Stderr, "Error: -m <market-slug> is required")
		return subcommands.ExitUsageError
	}

	rows, err := decodeBookFile(c.bookFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	cache, err := pricecache.Open(*cachePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer cache.Close()

	if err := cache.PutBatch(c.market, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error caching timeline for %q: %v\n", c.market, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Cached %d book rows for %s in %s\n", len(rows), c.market, *cachePath)
	return subcommands.ExitSuccess
}

// pricesExportCmd dumps a cached book timeline back out as JSONL.
type pricesExportCmd struct {
	market string
}

func (*pricesExportCmd) Name() string     { return "prices-export" }
func (*pricesExportCmd) Synopsis() string { return "dump a cached book timeline as JSONL" }
func (*pricesExportCmd) Usage() string {
	return `stc prices-export -m <market-slug>

  Writes a cached market's book timeline to stdout in the same JSONL format
  the recorder produces, ready to feed into 'stc replay'.
`
}

func (c *pricesExportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "m", "", "Market slug to export.")
}

func (c *pricesExportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.market == "" {
		fmt.Fprintln(os.Stderr, "Error: -m <market-slug> is required")
		return subcommands.ExitUsageError
	}

	cache, err := pricecache.Open(*cachePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer cache.Close()

	timeline, err := cache.Timeline(c.market)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timeline for %q: %v\n", c.market, err)
		return subcommands.ExitFailure
	}

	for _, row := range timeline {
		data, err := json.Marshal(row)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding book row seq %d: %v\n", row.Sequence, err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
	}
	return subcommands.ExitSuccess
}
