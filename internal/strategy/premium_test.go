package strategy

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastycli/tasty/internal/order"
)

// fakeQuotes maps symbols to fixed bid/ask pairs.
type fakeQuotes map[string][2]float64

func (f fakeQuotes) GetQuote(_ context.Context, symbol string) (decimal.Decimal, decimal.Decimal, error) {
	q, ok := f[symbol]
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("no quote for %s", symbol)
	}
	return decimal.NewFromFloat(q[0]), decimal.NewFromFloat(q[1]), nil
}

func TestNetPremium_BuyIsDebit(t *testing.T) {
	call := opt(Call, 175, exp1)
	o, err := BuyCall(call, Params{Quantity: 1, Price: price(2.50)})
	require.NoError(t, err)

	quotes := fakeQuotes{call.symbol: {2.45, 2.50}}
	premium, err := NetPremium(context.Background(), quotes, o)
	require.NoError(t, err)
	assert.True(t, premium.Equal(decimal.NewFromFloat(-247.5)), "got %s", premium)
}

func TestNetPremium_SellIsCredit(t *testing.T) {
	put := opt(Put, 170, exp1)
	o, err := SellPut(put, Params{Quantity: 1, Price: price(3.45)})
	require.NoError(t, err)

	quotes := fakeQuotes{put.symbol: {3.45, 3.50}}
	premium, err := NetPremium(context.Background(), quotes, o)
	require.NoError(t, err)
	assert.True(t, premium.Equal(decimal.NewFromFloat(347.5)), "got %s", premium)
}

func TestNetPremium_CombinedLegsSum(t *testing.T) {
	call := opt(Call, 175, exp1)
	put := opt(Put, 170, exp1)

	buyLeg, err := order.NewLeg(order.BuyToOpen, call.symbol, 1, order.WithInstrumentType(order.Option))
	require.NoError(t, err)
	sellLeg, err := order.NewLeg(order.SellToOpen, put.symbol, 1, order.WithInstrumentType(order.Option))
	require.NoError(t, err)
	o, err := order.New(order.Market, []order.Leg{buyLeg, sellLeg})
	require.NoError(t, err)

	quotes := fakeQuotes{
		call.symbol: {2.45, 2.50},
		put.symbol:  {3.45, 3.50},
	}
	premium, err := NetPremium(context.Background(), quotes, o)
	require.NoError(t, err)
	assert.True(t, premium.Equal(decimal.NewFromFloat(100.0)), "got %s", premium)
}

func TestNetPremium_QuoteFailurePropagates(t *testing.T) {
	call := opt(Call, 175, exp1)
	o, err := BuyCall(call, Params{Quantity: 1})
	require.NoError(t, err)

	_, err = NetPremium(context.Background(), fakeQuotes{}, o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to quote")
}

func TestNetPremium_ScalesWithQuantity(t *testing.T) {
	put := opt(Put, 170, exp1)
	o, err := SellPut(put, Params{Quantity: 4})
	require.NoError(t, err)

	quotes := fakeQuotes{put.symbol: {3.45, 3.50}}
	premium, err := NetPremium(context.Background(), quotes, o)
	require.NoError(t, err)
	assert.True(t, premium.Equal(decimal.NewFromFloat(1390)), "got %s", premium)
}
