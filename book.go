package simtrader

import (
	"github.com/shopspring/decimal"
)

// BookRow is one top-of-book snapshot from the recorded market-data tape.
//
// A nil BestBid or BestAsk means that side of the book was empty when the
// row was recorded. The tape carries a single bid/ask pair per row, which is
// applied to every asset during equity marking; this is correct for
// single-asset runs only.
type BookRow struct {
	Sequence int64            `json:"seq"`
	TsRecv   float64          `json:"ts_recv"`
	BestBid  *decimal.Decimal `json:"best_bid"`
	BestAsk  *decimal.Decimal `json:"best_ask"`
}
