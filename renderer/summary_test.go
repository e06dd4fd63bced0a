package renderer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/polysim/simtrader"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUSDCFormatting(t *testing.T) {
	assert.Equal(t, "$1,000.00", usdc(d("1000")))
	assert.Equal(t, "$957.95", usdc(d("957.9501535936")))
	assert.Equal(t, "$0.00", usdc(d("0")))
}

func TestSignedUSDC(t *testing.T) {
	assert.Equal(t, "+$15.95", signedUSDC(d("15.9501535936")))
	assert.Equal(t, "-$4.20", signedUSDC(d("-4.20")))
	assert.Equal(t, "-", signedUSDC(decimal.Zero))
}

func TestSummaryMarkdown(t *testing.T) {
	mark := d("0.58")
	s := &simtrader.Summary{
		RunID:             "run-1",
		StartingCash:      d("1000"),
		FinalCash:         d("957.9501535936"),
		ReservedCash:      d("0"),
		PositionMarkValue: d("58"),
		FinalEquity:       d("1015.9501535936"),
		RealizedPnL:       d("0"),
		UnrealizedPnL:     d("16"),
		TotalFees:         d("0.0498464064"),
		NetProfit:         d("15.9501535936"),
		OpenPositions: map[string]simtrader.OpenPosition{
			"asset-yes": {TotalSize: d("100"), AvgCost: d("0.42"), MarkPrice: &mark},
		},
		MarkMethod: simtrader.MarkBid,
		FeeRateBps: d("200"),
	}

	md := SummaryMarkdown(s)

	assert.Contains(t, md, "# Run run-1")
	assert.Contains(t, md, "Net profit: +$15.95")
	assert.Contains(t, md, "| Final equity | $1,015.95 |")
	assert.Contains(t, md, "| asset-yes | 100 | 0.42 | 0.58 |")
	assert.Contains(t, md, "Marked by bid, fee rate 200 bps.")
}

func TestSummaryMarkdownNoPositions(t *testing.T) {
	s := &simtrader.Summary{
		RunID:        "run-2",
		StartingCash: d("1000"),
		FinalCash:    d("1014.886538125"),
		FinalEquity:  d("1014.886538125"),
		RealizedPnL:  d("15"),
		TotalFees:    d("0.113461875"),
		NetProfit:    d("14.886538125"),
		MarkMethod:   simtrader.MarkBid,
		FeeRateBps:   d("200"),
	}

	md := SummaryMarkdown(s)
	assert.False(t, strings.Contains(md, "## Open positions"),
		"a flat book must not render an open-positions table")
}

func TestUnmarkedPositionRendersPlaceholder(t *testing.T) {
	s := &simtrader.Summary{
		RunID: "run-3",
		OpenPositions: map[string]simtrader.OpenPosition{
			"asset-yes": {TotalSize: d("100"), AvgCost: d("0.42"), MarkPrice: nil},
		},
		MarkMethod: simtrader.MarkMidpoint,
		FeeRateBps: d("200"),
	}

	md := SummaryMarkdown(s)
	assert.Contains(t, md, "| asset-yes | 100 | 0.42 | n/a |")
}
