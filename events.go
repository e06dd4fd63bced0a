package simtrader

import (
	"github.com/shopspring/decimal"
)

// Side identifies the direction of an order.
type Side string

// Order sides used by the simulated broker.
const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// EventType is a typed string for identifying order-lifecycle events.
type EventType string

// Event types emitted by the simulated broker.
const (
	EvtSubmitted       EventType = "submitted"
	EvtActivated       EventType = "activated"
	EvtFill            EventType = "fill"
	EvtCancelled       EventType = "cancelled"
	EvtCancelSubmitted EventType = "cancel_submitted"
)

// OrderEvent defines the common interface for all order-lifecycle events
// the broker records during a run.
//
// Events are produced concurrently upstream but arrive here already
// linearized: Seq is monotonically non-decreasing over the recorded stream,
// and several events may share a Seq (e.g. simultaneous partial fills).
type OrderEvent interface {
	What() EventType // What returns the event kind (e.g. "fill").
	Seq() int64      // Seq returns the replay sequence number.
	When() float64   // When returns the receipt timestamp.
	OrderID() string // OrderID returns the broker order id.
}

type baseEvent struct {
	Event    EventType `json:"event"`    // Event specifies the kind of lifecycle event.
	Order    string    `json:"order_id"` // Order is the broker order id.
	Sequence int64     `json:"seq"`      // Sequence ties the event to the replay order.
	TsRecv   float64   `json:"ts_recv"`  // TsRecv is the receipt timestamp.
}

func (e baseEvent) What() EventType { return e.Event }
func (e baseEvent) Seq() int64      { return e.Sequence }
func (e baseEvent) When() float64   { return e.TsRecv }
func (e baseEvent) OrderID() string { return e.Order }

// MarshalJSON implements the json.Marshaler interface for baseEvent.
func (e baseEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Event)
	w.Append("order_id", e.Order)
	w.Append("seq", e.Sequence)
	w.Append("ts_recv", e.TsRecv)
	return w.MarshalJSON()
}

// Submitted records an order handed to the broker. It is the only event that
// carries the order's side, asset, limit price and size; later events refer
// back to it by order id.
type Submitted struct {
	baseEvent
	Side       Side            // Side is the order direction.
	AssetID    string          // AssetID is the outcome token the order trades.
	LimitPrice decimal.Decimal // LimitPrice is the order's limit price.
	Size       decimal.Decimal // Size is the requested number of shares.
}

// MarshalJSON implements the json.Marshaler interface for Submitted.
func (e Submitted) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("side", e.Side)
	w.Append("asset_id", e.AssetID)
	w.Append("limit_price", e.LimitPrice)
	w.Append("size", e.Size)
	return w.MarshalJSON()
}

// Activated records an order becoming live on the book. It has no cash or
// position effect.
type Activated struct {
	baseEvent
}

// Fill records a partial or full execution of an order.
type Fill struct {
	baseEvent
	FillPrice decimal.Decimal // FillPrice is the execution price.
	FillSize  decimal.Decimal // FillSize is the executed share count.
	Remaining decimal.Decimal // Remaining is the unfilled size after this fill.
}

// MarshalJSON implements the json.Marshaler interface for Fill.
func (e Fill) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("fill_price", e.FillPrice)
	w.Append("fill_size", e.FillSize)
	w.Append("remaining", e.Remaining)
	return w.MarshalJSON()
}

// Cancelled records the broker confirming a cancel; any outstanding
// reservation for the order is released.
type Cancelled struct {
	baseEvent
	Remaining decimal.Decimal // Remaining is the size left unfilled at cancel time.
}

// MarshalJSON implements the json.Marshaler interface for Cancelled.
func (e Cancelled) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("remaining", e.Remaining)
	return w.MarshalJSON()
}

// CancelSubmitted records a cancel request in flight. It models cancel
// latency only; the reservation is released at the subsequent Cancelled.
type CancelSubmitted struct {
	baseEvent
}
