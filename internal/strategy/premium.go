package strategy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tastycli/tasty/internal/order"
)

// contractMultiplier is the standard equity-option contract size.
var contractMultiplier = decimal.NewFromInt(100)

// QuoteSource supplies live bid/ask quotes for option symbols.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (bid, ask decimal.Decimal, err error)
}

// NetPremium computes the signed net premium of an order from live
// mid-prices: for each leg, mid ×quantity ×100, negated for buy legs.
// Negative results are net debits, positive results net credits.
func NetPremium(ctx context.Context, quotes QuoteSource, o order.Order) (decimal.Decimal, error) {
	total := decimal.Zero
	two := decimal.NewFromInt(2)

	for _, leg := range o.Legs() {
		bid, ask, err := quotes.GetQuote(ctx, leg.Symbol())
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to quote %s: %w", leg.Symbol(), err)
		}
		mid := bid.Add(ask).Div(two)
		amount := mid.Mul(decimal.NewFromInt(int64(leg.Quantity()))).Mul(contractMultiplier)
		if leg.Action().IsBuy() {
			amount = amount.Neg()
		}
		total = total.Add(amount)
	}

	return total, nil
}
