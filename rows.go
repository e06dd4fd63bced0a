package simtrader

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ShareReservation is the bookkeeping entry for shares set aside by an open
// SELL order. It does not remove shares from the position; it only records
// that they are spoken for until the order fills or cancels.
type ShareReservation struct {
	AssetID string          `json:"asset_id"`
	Qty     decimal.Decimal `json:"qty"`
}

// PositionDetail describes one asset's open position inside a ledger row.
type PositionDetail struct {
	TotalSize decimal.Decimal `json:"total_size"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
	Lots      []Lot           `json:"lots"`
}

// LedgerRow captures the full ledger state immediately after one lifecycle
// event. Rows form an append-only JSONL log; all monetary fields serialize
// as decimal strings.
type LedgerRow struct {
	Sequence         int64
	TsRecv           float64
	Event            string
	OrderID          string
	CashUSDC         decimal.Decimal
	ReservedCashUSDC decimal.Decimal
	ReservedShares   map[string]ShareReservation
	Positions        map[string]PositionDetail
	RealizedPnL      decimal.Decimal
	TotalFees        decimal.Decimal
}

// MarshalJSON implements the json.Marshaler interface for LedgerRow.
// Field order is fixed so the serialized log is byte-reproducible.
func (r LedgerRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("seq", r.Sequence)
	w.Append("ts_recv", r.TsRecv)
	w.Append("event", r.Event)
	w.Append("order_id", r.OrderID)
	w.Append("cash_usdc", r.CashUSDC)
	w.Append("reserved_cash_usdc", r.ReservedCashUSDC)
	w.Append("reserved_shares", r.ReservedShares)
	w.Append("positions", r.Positions)
	w.Append("realized_pnl", r.RealizedPnL)
	w.Append("total_fees", r.TotalFees)
	return w.MarshalJSON()
}

// EquityRow is one point of the equity curve, sampled after all lifecycle
// events at its seq have been applied.
type EquityRow struct {
	Sequence          int64
	TsRecv            float64
	CashUSDC          decimal.Decimal
	ReservedCashUSDC  decimal.Decimal
	PositionMarkValue decimal.Decimal
	UnrealizedPnL     decimal.Decimal
	RealizedPnL       decimal.Decimal
	TotalFees         decimal.Decimal
	Equity            decimal.Decimal
	MarkMethod        MarkMethod
	BestBid           *decimal.Decimal
	BestAsk           *decimal.Decimal
}

// MarshalJSON implements the json.Marshaler interface for EquityRow.
func (r EquityRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("seq", r.Sequence)
	w.Append("ts_recv", r.TsRecv)
	w.Append("cash_usdc", r.CashUSDC)
	w.Append("reserved_cash_usdc", r.ReservedCashUSDC)
	w.Append("position_mark_value", r.PositionMarkValue)
	w.Append("unrealized_pnl", r.UnrealizedPnL)
	w.Append("realized_pnl", r.RealizedPnL)
	w.Append("total_fees", r.TotalFees)
	w.Append("equity", r.Equity)
	w.Append("mark_method", r.MarkMethod)
	w.Append("best_bid", r.BestBid)
	w.Append("best_ask", r.BestAsk)
	return w.MarshalJSON()
}

// OpenPosition describes one asset still held at the end of a run. MarkPrice
// is nil when the final book could not value the position.
type OpenPosition struct {
	TotalSize decimal.Decimal  `json:"total_size"`
	AvgCost   decimal.Decimal  `json:"avg_cost"`
	MarkPrice *decimal.Decimal `json:"mark_price"`
}

// Summary is the final accounting of a replay run.
type Summary struct {
	RunID             string
	StartingCash      decimal.Decimal
	FinalCash         decimal.Decimal
	ReservedCash      decimal.Decimal
	PositionMarkValue decimal.Decimal
	FinalEquity       decimal.Decimal
	RealizedPnL       decimal.Decimal
	UnrealizedPnL     decimal.Decimal
	TotalFees         decimal.Decimal
	NetProfit         decimal.Decimal
	OpenPositions     map[string]OpenPosition
	MarkMethod        MarkMethod
	FeeRateBps        decimal.Decimal
}

// UnmarshalJSON implements the json.Unmarshaler interface for Summary, so
// downstream tools can load a summary.json artifact back.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var temp struct {
		RunID             string                  `json:"run_id"`
		StartingCash      decimal.Decimal         `json:"starting_cash"`
		FinalCash         decimal.Decimal         `json:"final_cash"`
		ReservedCash      decimal.Decimal         `json:"reserved_cash"`
		PositionMarkValue decimal.Decimal         `json:"position_mark_value"`
		FinalEquity       decimal.Decimal         `json:"final_equity"`
		RealizedPnL       decimal.Decimal         `json:"realized_pnl"`
		UnrealizedPnL     decimal.Decimal         `json:"unrealized_pnl"`
		TotalFees         decimal.Decimal         `json:"total_fees"`
		NetProfit         decimal.Decimal         `json:"net_profit"`
		OpenPositions     map[string]OpenPosition `json:"open_positions"`
		MarkMethod        string                  `json:"mark_method"`
		FeeRateBps        decimal.Decimal         `json:"fee_rate_bps"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	method, err := ParseMarkMethod(temp.MarkMethod)
	if err != nil {
		return err
	}
	*s = Summary{
		RunID:             temp.RunID,
		StartingCash:      temp.StartingCash,
		FinalCash:         temp.FinalCash,
		ReservedCash:      temp.ReservedCash,
		PositionMarkValue: temp.PositionMarkValue,
		FinalEquity:       temp.FinalEquity,
		RealizedPnL:       temp.RealizedPnL,
		UnrealizedPnL:     temp.UnrealizedPnL,
		TotalFees:         temp.TotalFees,
		NetProfit:         temp.NetProfit,
		OpenPositions:     temp.OpenPositions,
		MarkMethod:        method,
		FeeRateBps:        temp.FeeRateBps,
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Summary.
func (s Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("run_id", s.RunID)
	w.Append("starting_cash", s.StartingCash)
	w.Append("final_cash", s.FinalCash)
	w.Append("reserved_cash", s.ReservedCash)
	w.Append("position_mark_value", s.PositionMarkValue)
	w.Append("final_equity", s.FinalEquity)
	w.Append("realized_pnl", s.RealizedPnL)
	w.Append("unrealized_pnl", s.UnrealizedPnL)
	w.Append("total_fees", s.TotalFees)
	w.Append("net_profit", s.NetProfit)
	w.Append("open_positions", s.OpenPositions)
	w.Append("mark_method", s.MarkMethod)
	w.Append("fee_rate_bps", s.FeeRateBps)
	return w.MarshalJSON()
}
