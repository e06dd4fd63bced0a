package simtrader

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MarkMethod defines the method for valuing an open position from the book.
type MarkMethod int

const (
	// MarkBid marks a long at the best bid and a short at the best ask:
	// the price obtainable by liquidating right now. It never overstates
	// unrealized gains, which is why it is the default.
	MarkBid MarkMethod = iota
	// MarkMidpoint marks at the bid/ask midpoint.
	MarkMidpoint
)

func (m MarkMethod) String() string {
	switch m {
	case MarkBid:
		return "bid"
	case MarkMidpoint:
		return "midpoint"
	default:
		return "unknown"
	}
}

// ParseMarkMethod parses a string into a MarkMethod.
func ParseMarkMethod(s string) (MarkMethod, error) {
	switch s {
	case "bid":
		return MarkBid, nil
	case "midpoint":
		return MarkMidpoint, nil
	default:
		return 0, fmt.Errorf("unknown mark method: %q", s)
	}
}

// MarshalJSON implements the json.Marshaler interface for MarkMethod.
func (m MarkMethod) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", m.String())), nil
}

// MarkPrice resolves the price at which a position on the given side can be
// valued from the current top of book.
//
// A nil result with a nil error means the needed side of the book is absent:
// the position cannot be valued right now. Callers must not treat that as a
// zero price. An unrecognized method is an invalid-input error.
func MarkPrice(side Side, bestBid, bestAsk *decimal.Decimal, method MarkMethod) (*decimal.Decimal, error) {
	switch method {
	case MarkBid:
		if side == SideSell {
			return cloneDecimal(bestAsk), nil
		}
		return cloneDecimal(bestBid), nil
	case MarkMidpoint:
		if bestBid == nil || bestAsk == nil {
			return nil, nil
		}
		mid := bestBid.Add(*bestAsk).Div(two)
		return &mid, nil
	default:
		return nil, fmt.Errorf("unknown mark method: %d", method)
	}
}

// cloneDecimal copies an optional decimal so callers cannot alias the book row.
func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
