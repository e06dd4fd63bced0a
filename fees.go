package simtrader

import (
	"log"

	"github.com/shopspring/decimal"
)

// DefaultFeeRateBps is the fee rate assumed when a run does not specify one.
// 200 bps is the maximum realistic venue fee, so fees computed with the
// default are an upper bound on what would actually be charged.
var DefaultFeeRateBps = decimal.NewFromInt(200)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
	// 1e-4, the bps-to-fraction shift. Multiplying keeps the result exact.
	bpsShift = decimal.New(1, -4)
	// (0.5 * (1-0.5))^2, the peak of the fee curve.
	peakCurveFactor = decimal.RequireFromString("0.0625")
	half            = decimal.RequireFromString("0.5")
)

// effectiveFeeRate resolves an optional fee rate to a concrete one.
func effectiveFeeRate(feeRateBps *decimal.Decimal) decimal.Decimal {
	if feeRateBps == nil {
		log.Printf("fee: no fee rate supplied, assuming conservative default %s bps", DefaultFeeRateBps)
		return DefaultFeeRateBps
	}
	return *feeRateBps
}

// priceInRange reports whether a price lies in the open interval (0,1).
func priceInRange(price decimal.Decimal) bool {
	return price.IsPositive() && price.LessThan(one)
}

// FillFee computes the fee charged on a fill.
//
// The fee scales with notional and with the liquidity-sensitivity of the
// price: fee = size * price * (bps/10000) * (price*(1-price))^2. The squared
// term peaks at price 0.5 and vanishes at the extremes. Degenerate inputs
// (size <= 0, price outside (0,1)) cost exactly zero.
func FillFee(fillSize, fillPrice decimal.Decimal, feeRateBps *decimal.Decimal) decimal.Decimal {
	rate := effectiveFeeRate(feeRateBps)
	if fillSize.Sign() <= 0 || !priceInRange(fillPrice) {
		return decimal.Zero
	}
	spread := fillPrice.Mul(one.Sub(fillPrice))
	factor := spread.Mul(spread)
	return fillSize.Mul(fillPrice).Mul(rate.Mul(bpsShift)).Mul(factor)
}

// WorstCaseFee estimates the largest fee a fill of the given size could
// attract, for pre-trade sizing. It applies the same formula as FillFee but
// pins the curve factor at its peak (0.0625). A nil or out-of-range price is
// replaced by 0.5, the price at which the curve peaks. Returns zero for
// non-positive sizes.
func WorstCaseFee(fillSize decimal.Decimal, fillPrice *decimal.Decimal, feeRateBps *decimal.Decimal) decimal.Decimal {
	rate := effectiveFeeRate(feeRateBps)
	if fillSize.Sign() <= 0 {
		return decimal.Zero
	}
	price := half
	if fillPrice != nil && priceInRange(*fillPrice) {
		price = *fillPrice
	}
	return fillSize.Mul(price).Mul(rate.Mul(bpsShift)).Mul(peakCurveFactor)
}
