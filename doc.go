// Package simtrader reconstructs the cash, position and PnL history of a
// simulated prediction-market trading run from its recorded event log.
//
// The core is the Ledger: a deterministic accounting state machine that
// replays a broker's order-lifecycle events (submitted, activated, fill,
// cancelled, cancel_submitted) against a recorded top-of-book timeline, both
// linearized by a shared sequence number. It maintains cash, per-order
// reservations, FIFO purchase lots, cumulative fees and realized PnL, and
// emits two append-only logs (ledger snapshots and equity-curve rows) plus a
// final run summary.
//
// All monetary arithmetic uses shopspring/decimal and all monetary output is
// serialized as decimal strings, so replaying the same input twice yields
// byte-identical artifacts.
package simtrader
