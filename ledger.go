package simtrader

import (
	"fmt"
	"log"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// OrderMeta is the immutable record of an order taken at submission time.
// Fill and cancel events carry only the order id; the meta supplies the
// side, asset and limit terms needed to interpret them.
type OrderMeta struct {
	Side       Side
	AssetID    string
	LimitPrice decimal.Decimal
	Size       decimal.Decimal
}

// Ledger replays a recorded order-event stream against a book timeline and
// maintains the run's cash, reservations, FIFO lots, fees and realized PnL.
//
// A Ledger is built once per replay run, mutated exclusively by Process, and
// read by Summary. It is not safe for concurrent use: the input streams are
// already linearized by seq, so processing is strictly sequential.
type Ledger struct {
	cash           decimal.Decimal
	lots           map[string]lots
	reservedCash   map[string]decimal.Decimal
	reservedShares map[string]ShareReservation
	orderMeta      map[string]OrderMeta
	realizedPnL    decimal.Decimal
	totalFees      decimal.Decimal

	startingCash decimal.Decimal
	feeRateBps   *decimal.Decimal
	markMethod   MarkMethod
}

// NewLedger creates a ledger for one replay run.
//
// Negative starting cash is a construction error. A nil feeRateBps means
// every fill is charged at the conservative default rate (with a logged
// warning per fill).
func NewLedger(startingCash decimal.Decimal, feeRateBps *decimal.Decimal, markMethod MarkMethod) (*Ledger, error) {
	if startingCash.IsNegative() {
		return nil, fmt.Errorf("starting cash must be >= 0, got %s", startingCash)
	}
	if markMethod != MarkBid && markMethod != MarkMidpoint {
		return nil, fmt.Errorf("unknown mark method: %d", markMethod)
	}
	return &Ledger{
		cash:           startingCash,
		lots:           make(map[string]lots),
		reservedCash:   make(map[string]decimal.Decimal),
		reservedShares: make(map[string]ShareReservation),
		orderMeta:      make(map[string]OrderMeta),
		realizedPnL:    decimal.Zero,
		totalFees:      decimal.Zero,
		startingCash:   startingCash,
		feeRateBps:     cloneDecimal(feeRateBps),
		markMethod:     markMethod,
	}, nil
}

// Cash returns the current available (unreserved) balance. It can be
// slightly negative when a fill's price plus fee exceeded its reservation
// slice; that condition is logged during processing, not raised.
func (l *Ledger) Cash() decimal.Decimal { return l.cash }

// RealizedPnL returns the cumulative gross (pre-fee) realized PnL.
func (l *Ledger) RealizedPnL() decimal.Decimal { return l.realizedPnL }

// TotalFees returns the cumulative fees across all fills.
func (l *Ledger) TotalFees() decimal.Decimal { return l.totalFees }

// Position returns the open position size for an asset.
func (l *Ledger) Position(assetID string) decimal.Decimal {
	return l.lots[assetID].totalSize()
}

// totalReservedCash sums the outstanding cash reservations.
func (l *Ledger) totalReservedCash() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range l.reservedCash {
		total = total.Add(amount)
	}
	return total
}

// Process replays the full event log.
//
// Events are grouped by seq preserving their original relative order within
// a group; book rows are indexed by seq with the last row winning on
// duplicates. Seqs from both streams are visited in ascending order. At each
// seq every lifecycle event is dispatched first, then, if book data exists
// at that seq, exactly one equity row is sampled from the post-event state.
// Equity is therefore never computed from stale cash or positions.
//
// Malformed event data never aborts the replay: unknown order ids and
// unrecognized event kinds are logged and skipped with no state change.
func (l *Ledger) Process(events []OrderEvent, book []BookRow) ([]LedgerRow, []EquityRow) {
	eventsBySeq := make(map[int64][]OrderEvent)
	for _, ev := range events {
		eventsBySeq[ev.Seq()] = append(eventsBySeq[ev.Seq()], ev)
	}

	bookBySeq := make(map[int64]BookRow)
	for _, row := range book {
		bookBySeq[row.Sequence] = row // last row wins on duplicate seq
	}

	seqs := slices.Collect(maps.Keys(eventsBySeq))
	for seq := range bookBySeq {
		if _, ok := eventsBySeq[seq]; !ok {
			seqs = append(seqs, seq)
		}
	}
	slices.Sort(seqs)

	ledgerRows := make([]LedgerRow, 0, len(events))
	equityRows := make([]EquityRow, 0, len(bookBySeq))
	for _, seq := range seqs {
		for _, ev := range eventsBySeq[seq] {
			if row, ok := l.apply(ev); ok {
				ledgerRows = append(ledgerRows, row)
			}
		}
		if bookRow, ok := bookBySeq[seq]; ok {
			equityRows = append(equityRows, l.equitySnapshot(bookRow))
		}
	}
	return ledgerRows, equityRows
}

// apply dispatches one lifecycle event. The boolean reports whether the
// event produced a ledger row.
func (l *Ledger) apply(ev OrderEvent) (LedgerRow, bool) {
	switch v := ev.(type) {
	case Submitted:
		return l.applySubmitted(v), true
	case Activated:
		// The order went live on the book; no cash or position effect and
		// no row, to keep the ledger log compact.
		return LedgerRow{}, false
	case Fill:
		return l.applyFill(v)
	case Cancelled:
		return l.applyCancelled(v)
	case CancelSubmitted:
		// Latency placeholder; the release happens at the Cancelled event.
		return LedgerRow{}, false
	default:
		log.Printf("seq %d: skipping unrecognized event kind %q (order %s)", ev.Seq(), ev.What(), ev.OrderID())
		return LedgerRow{}, false
	}
}

// applySubmitted records order metadata and sets aside cash (BUY) or shares
// (SELL) for the order.
func (l *Ledger) applySubmitted(ev Submitted) LedgerRow {
	l.orderMeta[ev.Order] = OrderMeta{
		Side:       ev.Side,
		AssetID:    ev.AssetID,
		LimitPrice: ev.LimitPrice,
		Size:       ev.Size,
	}

	switch ev.Side {
	case SideSell:
		position := l.lots[ev.AssetID].totalSize()
		reserve := ev.Size
		if reserve.GreaterThan(position) {
			log.Printf("seq %d: order %s asks to sell %s of %s but only %s held, reserving what is held",
				ev.Sequence, ev.Order, ev.Size, ev.AssetID, position)
			reserve = position
		}
		l.reservedShares[ev.Order] = ShareReservation{AssetID: ev.AssetID, Qty: reserve}
	default:
		want := ev.LimitPrice.Mul(ev.Size)
		reserve := want
		if reserve.GreaterThan(l.cash) {
			log.Printf("seq %d: order %s needs %s reserved but only %s available, clamping",
				ev.Sequence, ev.Order, want, l.cash)
			reserve = decimal.Max(decimal.Zero, l.cash)
		}
		l.cash = l.cash.Sub(reserve)
		l.reservedCash[ev.Order] = reserve
	}

	return l.ledgerSnapshot(ev.Sequence, ev.TsRecv, "order_submitted", ev.Order)
}

// applyFill settles one (partial or full) execution against the order's
// reservation, charges the fee, and updates lots and realized PnL.
func (l *Ledger) applyFill(ev Fill) (LedgerRow, bool) {
	meta, ok := l.orderMeta[ev.Order]
	if !ok {
		log.Printf("seq %d: fill for unknown order %s, skipping", ev.Sequence, ev.Order)
		return LedgerRow{}, false
	}

	fee := FillFee(ev.FillSize, ev.FillPrice, l.feeRateBps)
	l.totalFees = l.totalFees.Add(fee)

	if meta.Side == SideSell {
		l.settleSellFill(ev, meta, fee)
	} else {
		l.settleBuyFill(ev, meta, fee)
	}
	return l.ledgerSnapshot(ev.Sequence, ev.TsRecv, "fill", ev.Order), true
}

func (l *Ledger) settleBuyFill(ev Fill, meta OrderMeta, fee decimal.Decimal) {
	// Release the reservation slice covering this fill, capped at what is
	// still actually reserved for the order.
	slice := meta.LimitPrice.Mul(ev.FillSize)
	reserved := l.reservedCash[ev.Order]
	if slice.GreaterThan(reserved) {
		slice = reserved
	}
	reserved = reserved.Sub(slice)

	actualCost := ev.FillPrice.Mul(ev.FillSize).Add(fee)
	refund := slice.Sub(actualCost)
	if refund.IsNegative() {
		log.Printf("seq %d: order %s fill cost %s exceeds reserved slice %s, cash may go negative",
			ev.Sequence, ev.Order, actualCost, slice)
	}
	l.cash = l.cash.Add(refund)

	// Fees never fold into cost basis; the lot carries the raw fill price.
	l.lots[meta.AssetID] = append(l.lots[meta.AssetID], Lot{Size: ev.FillSize, Cost: ev.FillPrice})

	if ev.Remaining.Sign() <= 0 {
		if reserved.Sign() != 0 {
			log.Printf("seq %d: order %s fully filled, dropping residual cash reservation %s",
				ev.Sequence, ev.Order, reserved)
		}
		delete(l.reservedCash, ev.Order)
	} else {
		l.reservedCash[ev.Order] = reserved
	}
}

func (l *Ledger) settleSellFill(ev Fill, meta OrderMeta, fee decimal.Decimal) {
	if sr, ok := l.reservedShares[ev.Order]; ok {
		sr.Qty = sr.Qty.Sub(ev.FillSize)
		if sr.Qty.Sign() <= 0 {
			delete(l.reservedShares, ev.Order)
		} else {
			l.reservedShares[ev.Order] = sr
		}
	}

	// The fee reduces proceeds; it is never added to cost basis.
	l.cash = l.cash.Add(ev.FillPrice.Mul(ev.FillSize).Sub(fee))

	realized, consumed, remaining := l.lots[meta.AssetID].consume(ev.FillSize, ev.FillPrice)
	if consumed.LessThan(ev.FillSize) {
		log.Printf("seq %d: order %s sold %s of %s but only %s was held, realizing on what was available",
			ev.Sequence, ev.Order, ev.FillSize, meta.AssetID, consumed)
	}
	if len(remaining) == 0 {
		delete(l.lots, meta.AssetID)
	} else {
		l.lots[meta.AssetID] = remaining
	}
	l.realizedPnL = l.realizedPnL.Add(realized)

	if ev.Remaining.Sign() <= 0 {
		delete(l.reservedShares, ev.Order)
	}
}

// applyCancelled releases whatever the order still has reserved. A BUY
// returns its remaining cash reservation to the balance; a SELL just frees
// the share reservation, with no cash movement.
func (l *Ledger) applyCancelled(ev Cancelled) (LedgerRow, bool) {
	meta, ok := l.orderMeta[ev.Order]
	if !ok {
		log.Printf("seq %d: cancel for unknown order %s, skipping", ev.Sequence, ev.Order)
		return LedgerRow{}, false
	}

	if meta.Side == SideSell {
		delete(l.reservedShares, ev.Order)
	} else {
		if reserved, held := l.reservedCash[ev.Order]; held {
			l.cash = l.cash.Add(reserved)
			delete(l.reservedCash, ev.Order)
		}
	}
	return l.ledgerSnapshot(ev.Sequence, ev.TsRecv, "cancelled", ev.Order), true
}

// ledgerSnapshot captures the full state as of this instant. Maps and lot
// lists are deep-copied so later mutation cannot retroactively change rows.
func (l *Ledger) ledgerSnapshot(seq int64, tsRecv float64, event, orderID string) LedgerRow {
	positions := make(map[string]PositionDetail, len(l.lots))
	for assetID, assetLots := range l.lots {
		positions[assetID] = PositionDetail{
			TotalSize: assetLots.totalSize(),
			AvgCost:   assetLots.avgCost(),
			Lots:      assetLots.clone(),
		}
	}

	return LedgerRow{
		Sequence:         seq,
		TsRecv:           tsRecv,
		Event:            event,
		OrderID:          orderID,
		CashUSDC:         l.cash,
		ReservedCashUSDC: l.totalReservedCash(),
		ReservedShares:   maps.Clone(l.reservedShares),
		Positions:        positions,
		RealizedPnL:      l.realizedPnL,
		TotalFees:        l.totalFees,
	}
}

// markPositions values every open position against one top-of-book pair and
// returns the total mark value and unrealized PnL. Assets the book cannot
// value are skipped (partial marking); every position is marked as a long,
// since the ledger does not model genuine short exposure for valuation.
func (l *Ledger) markPositions(bestBid, bestAsk *decimal.Decimal) (markValue, unrealized decimal.Decimal) {
	markValue = decimal.Zero
	unrealized = decimal.Zero

	mark, err := MarkPrice(SideBuy, bestBid, bestAsk, l.markMethod)
	if err != nil || mark == nil {
		return markValue, unrealized
	}

	for _, assetID := range slices.Sorted(maps.Keys(l.lots)) {
		assetLots := l.lots[assetID]
		size := assetLots.totalSize()
		if size.IsZero() {
			continue
		}
		markValue = markValue.Add(size.Mul(*mark))
		unrealized = unrealized.Add(size.Mul(mark.Sub(assetLots.avgCost())))
	}
	return markValue, unrealized
}

// equitySnapshot samples the equity curve at one book row, after all
// lifecycle events at that seq have been applied.
func (l *Ledger) equitySnapshot(bookRow BookRow) EquityRow {
	reserved := l.totalReservedCash()
	markValue, unrealized := l.markPositions(bookRow.BestBid, bookRow.BestAsk)

	return EquityRow{
		Sequence:          bookRow.Sequence,
		TsRecv:            bookRow.TsRecv,
		CashUSDC:          l.cash,
		ReservedCashUSDC:  reserved,
		PositionMarkValue: markValue,
		UnrealizedPnL:     unrealized,
		RealizedPnL:       l.realizedPnL,
		TotalFees:         l.totalFees,
		Equity:            l.cash.Add(reserved).Add(markValue),
		MarkMethod:        l.markMethod,
		BestBid:           cloneDecimal(bookRow.BestBid),
		BestAsk:           cloneDecimal(bookRow.BestAsk),
	}
}

// Summary closes the books on a run using the final top-of-book state.
func (l *Ledger) Summary(runID string, finalBestBid, finalBestAsk *decimal.Decimal) Summary {
	reserved := l.totalReservedCash()
	markValue, unrealized := l.markPositions(finalBestBid, finalBestAsk)

	openPositions := make(map[string]OpenPosition, len(l.lots))
	mark, err := MarkPrice(SideBuy, finalBestBid, finalBestAsk, l.markMethod)
	if err != nil {
		mark = nil
	}
	for assetID, assetLots := range l.lots {
		size := assetLots.totalSize()
		if size.IsZero() {
			continue
		}
		openPositions[assetID] = OpenPosition{
			TotalSize: size,
			AvgCost:   assetLots.avgCost(),
			MarkPrice: cloneDecimal(mark),
		}
	}

	return Summary{
		RunID:             runID,
		StartingCash:      l.startingCash,
		FinalCash:         l.cash,
		ReservedCash:      reserved,
		PositionMarkValue: markValue,
		FinalEquity:       l.cash.Add(reserved).Add(markValue),
		RealizedPnL:       l.realizedPnL,
		UnrealizedPnL:     unrealized,
		TotalFees:         l.totalFees,
		NetProfit:         l.realizedPnL.Add(unrealized).Sub(l.totalFees),
		OpenPositions:     openPositions,
		MarkMethod:        l.markMethod,
		FeeRateBps:        effectiveFeeRate(l.feeRateBps),
	}
}
