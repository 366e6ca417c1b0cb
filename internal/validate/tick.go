package validate

import "github.com/shopspring/decimal"

// tickSize is the minimum price increment. The brokerage quotes penny
// increments across every price tier we trade.
var tickSize = decimal.NewFromFloat(0.01)

// RoundToTick rounds a price to the nearest tick:
// round(price / tick) x tick. Idempotent by construction.
func RoundToTick(price decimal.Decimal) decimal.Decimal {
	return price.Div(tickSize).Round(0).Mul(tickSize)
}

// OnTick reports whether price is already a whole multiple of the tick.
func OnTick(price decimal.Decimal) bool {
	return RoundToTick(price).Equal(price)
}
