package simtrader

import (
	"github.com/shopspring/decimal"
)

// Lot represents a single purchase of an asset, used for FIFO cost basis.
// Size is always positive; fully consumed lots are removed from the list.
type Lot struct {
	Size decimal.Decimal `json:"size"`
	Cost decimal.Decimal `json:"cost"` // cost per share
}

type lots []Lot

// totalSize returns the open position size, the sum of all lot sizes.
func (l lots) totalSize() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.Size)
	}
	return total
}

// avgCost returns the size-weighted average cost per share, or zero for an
// empty position.
func (l lots) avgCost() decimal.Decimal {
	size := l.totalSize()
	if size.IsZero() {
		return decimal.Zero
	}
	cost := decimal.Zero
	for _, lot := range l {
		cost = cost.Add(lot.Size.Mul(lot.Cost))
	}
	return cost.Div(size)
}

// consume sells quantityToSell shares at sellPrice against the lots, oldest
// first. It returns the gross realized PnL (pre-fee), the quantity actually
// consumed, and the remaining lots. A partially consumed lot is replaced in
// place with the residual at the same cost; a fully consumed lot is removed.
// If the position cannot cover the full quantity, consume realizes whatever
// is available and reports the shortfall through the consumed quantity.
func (l lots) consume(quantityToSell, sellPrice decimal.Decimal) (realized, consumed decimal.Decimal, remaining lots) {
	realized = decimal.Zero
	consumed = decimal.Zero

	for _, currentLot := range l {
		if quantityToSell.Sign() <= 0 {
			remaining = append(remaining, currentLot)
			continue
		}

		if currentLot.Size.GreaterThan(quantityToSell) {
			// Partial sale from this lot.
			realized = realized.Add(quantityToSell.Mul(sellPrice.Sub(currentLot.Cost)))
			consumed = consumed.Add(quantityToSell)
			remaining = append(remaining, Lot{
				Size: currentLot.Size.Sub(quantityToSell),
				Cost: currentLot.Cost,
			})
			quantityToSell = decimal.Zero
		} else {
			// Full sale of this lot.
			realized = realized.Add(currentLot.Size.Mul(sellPrice.Sub(currentLot.Cost)))
			consumed = consumed.Add(currentLot.Size)
			quantityToSell = quantityToSell.Sub(currentLot.Size)
		}
	}
	return realized, consumed, remaining
}

// clone returns an independent copy, used when snapshotting ledger state.
func (l lots) clone() []Lot {
	if len(l) == 0 {
		return []Lot{}
	}
	out := make([]Lot, len(l))
	copy(out, l)
	return out
}
