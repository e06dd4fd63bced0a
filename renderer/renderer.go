// Package renderer turns run artifacts into markdown reports for the
// terminal. Rendering is presentation only: it rounds for display, while the
// serialized artifacts keep full precision.
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	// USDC is not in go-money's ISO table; register it so amounts format
	// like dollars.
	money.AddCurrency("USDC", "$", "$1", ".", ",", 2)
}

// usdc formats a decimal USDC amount for display.
func usdc(d decimal.Decimal) string {
	cur := money.GetCurrency("USDC")
	shifted := d.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(shifted.IntPart())
}

// signedUSDC formats a USDC amount with an explicit sign, "-" for zero.
func signedUSDC(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	if d.IsPositive() {
		return "+" + usdc(d)
	}
	return usdc(d)
}
