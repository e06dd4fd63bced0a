// Package cmd implements the CLI application of the trading-research toolkit.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&replayCmd{}, "replay")
	c.Register(&summaryCmd{}, "replay")

	c.Register(&pricesImportCmd{}, "market data")
	c.Register(&pricesExportCmd{}, "market data")
	c.Register(&resolveCmd{}, "market data")
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when the terminal renderer is unavailable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprintln(os.Stdout, md)
		return
	}
	fmt.Fprintln(os.Stdout, out)
}
