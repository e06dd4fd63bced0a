package simtrader

import (
	"testing"

	"github.com/shopspring/decimal"
)

// d parses a decimal literal for tests.
func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// dp parses a decimal literal and returns a pointer, for optional fields.
func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

// assertDecimalEqual fails the test when got and want are not numerically equal.
func assertDecimalEqual(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
