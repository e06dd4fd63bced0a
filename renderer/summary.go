package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polysim/simtrader"
)

// SummaryMarkdown renders a run summary as a markdown report.
func SummaryMarkdown(s *simtrader.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run %s\n\n", s.RunID)
	fmt.Fprintf(&b, "Net profit: %s (realized %s, unrealized %s, fees %s)\n\n",
		signedUSDC(s.NetProfit), signedUSDC(s.RealizedPnL), signedUSDC(s.UnrealizedPnL), usdc(s.TotalFees))

	b.WriteString("## Accounts\n\n")
	b.WriteString("| Account | Amount |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Starting cash | %s |\n", usdc(s.StartingCash))
	fmt.Fprintf(&b, "| Final cash | %s |\n", usdc(s.FinalCash))
	fmt.Fprintf(&b, "| Reserved cash | %s |\n", usdc(s.ReservedCash))
	fmt.Fprintf(&b, "| Position mark value | %s |\n", usdc(s.PositionMarkValue))
	fmt.Fprintf(&b, "| Final equity | %s |\n", usdc(s.FinalEquity))
	b.WriteString("\n")

	if len(s.OpenPositions) > 0 {
		b.WriteString("## Open positions\n\n")
		b.WriteString("| Asset | Size | Avg cost | Mark |\n")
		b.WriteString("|---|---|---|---|\n")

		assets := make([]string, 0, len(s.OpenPositions))
		for asset := range s.OpenPositions {
			assets = append(assets, asset)
		}
		sort.Strings(assets)

		for _, asset := range assets {
			pos := s.OpenPositions[asset]
			mark := "n/a"
			if pos.MarkPrice != nil {
				mark = pos.MarkPrice.String()
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", asset, pos.TotalSize, pos.AvgCost, mark)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Marked by %s, fee rate %s bps.\n", s.MarkMethod, s.FeeRateBps)
	return b.String()
}
