package order

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const occCall = "AAPL  250117C00175000"

func TestNewLeg_DerivesPositionEffect(t *testing.T) {
	cases := []struct {
		action Action
		want   PositionEffect
	}{
		{BuyToOpen, Opening},
		{SellToOpen, Opening},
		{BuyToClose, Closing},
		{SellToClose, Closing},
	}
	for _, tc := range cases {
		leg, err := NewLeg(tc.action, "AAPL", 10)
		require.NoError(t, err)
		assert.Equal(t, tc.want, leg.PositionEffect(), "action %s", tc.action)
		assert.Equal(t, Equity, leg.InstrumentType())
	}
}

func TestNewLeg_RejectsBadAction(t *testing.T) {
	_, err := NewLeg(Action("Buy"), "AAPL", 10)
	require.Error(t, err)
	var cerr *ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "action", cerr.Field)
}

func TestNewLeg_QuantityRangeNotPolicedHere(t *testing.T) {
	// Range bounds are the validation pipeline's responsibility.
	leg, err := NewLeg(BuyToOpen, "AAPL", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, leg.Quantity())
}

func TestNewLeg_OptionRequiresOCCSymbol(t *testing.T) {
	_, err := NewLeg(BuyToOpen, "AAPL", 1, WithInstrumentType(Option))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCC")

	leg, err := NewLeg(BuyToOpen, occCall, 1, WithInstrumentType(Option))
	require.NoError(t, err)
	assert.Equal(t, occCall, leg.Symbol())
}

func TestNewLeg_RejectsUnknownPositionEffect(t *testing.T) {
	_, err := NewLeg(BuyToOpen, "AAPL", 1, WithPositionEffect(PositionEffect("Sideways")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position effect")
}

func TestIsOCCSymbol(t *testing.T) {
	assert.True(t, IsOCCSymbol("AAPL  250117C00175000"))
	assert.True(t, IsOCCSymbol("SPX   240119P04700000"))
	assert.True(t, IsOCCSymbol("BRK.B 250620C00450000"))
	assert.False(t, IsOCCSymbol("AAPL"))
	assert.False(t, IsOCCSymbol("AAPL  250117X00175000"))
	assert.False(t, IsOCCSymbol("AAPL  250117C0017500"))
	assert.False(t, IsOCCSymbol("aapl  250117C00175000"))
}

func TestOrderOptions_ApplyToOptionLegs(t *testing.T) {
	// The Option instrument type and OrderOption functional options are
	// distinct names that must compose in one construction.
	leg, err := NewLeg(BuyToOpen, occCall, 1, WithInstrumentType(Option))
	require.NoError(t, err)

	opts := []OrderOption{WithTimeInForce(GTC), WithPrice(decimal.NewFromFloat(2.45))}
	o, err := New(Limit, []Leg{leg}, opts...)
	require.NoError(t, err)

	assert.Equal(t, GTC, o.TimeInForce())
	assert.Equal(t, Option, o.Legs()[0].InstrumentType())
}

func TestNew_Defaults(t *testing.T) {
	leg, err := NewLeg(BuyToOpen, "AAPL", 100)
	require.NoError(t, err)

	o, err := Single(Market, leg)
	require.NoError(t, err)

	assert.Equal(t, Day, o.TimeInForce())
	assert.True(t, o.IsMarket())
	assert.False(t, o.IsLimit())
	assert.False(t, o.IsStop())
	assert.Nil(t, o.Price())
	assert.Len(t, o.Legs(), 1)
}

func TestNew_LimitRequiresPrice(t *testing.T) {
	leg, err := NewLeg(BuyToOpen, "AAPL", 100)
	require.NoError(t, err)

	_, err = Single(Limit, leg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require a price")
}

func TestNew_RejectsNonPositivePrice(t *testing.T) {
	leg, err := NewLeg(BuyToOpen, "AAPL", 100)
	require.NoError(t, err)

	_, err = Single(Limit, leg, WithPrice(decimal.Zero))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than zero")

	_, err = Single(Limit, leg, WithPrice(decimal.NewFromFloat(-1.50)))
	require.Error(t, err)
}

func TestNew_RejectsEmptyLegs(t *testing.T) {
	_, err := New(Market, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one leg")
}

func TestNew_RejectsUnknownTypeAndTIF(t *testing.T) {
	leg, err := NewLeg(BuyToOpen, "AAPL", 1)
	require.NoError(t, err)

	_, err = Single(Type("Trailing"), leg)
	require.Error(t, err)

	_, err = Single(Market, leg, WithTimeInForce(TimeInForce("IOC")))
	require.Error(t, err)
}

func TestDerivePriceEffect_FirstLegOnly(t *testing.T) {
	buy, err := NewLeg(BuyToOpen, occCall, 1, WithInstrumentType(Option))
	require.NoError(t, err)
	sell, err := NewLeg(SellToOpen, "AAPL  250117C00180000", 1, WithInstrumentType(Option))
	require.NoError(t, err)

	assert.Equal(t, Debit, DerivePriceEffect(buy))
	assert.Equal(t, Credit, DerivePriceEffect(sell))

	// A mixed order takes its effect from the first leg, never a net
	// aggregate across legs.
	o, err := New(Limit, []Leg{sell, buy}, WithPrice(decimal.NewFromFloat(1.25)))
	require.NoError(t, err)

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "Credit", wire["price-effect"])
}

func TestMarshalJSON_MarketOrderOmitsPrice(t *testing.T) {
	leg, err := NewLeg(SellToClose, "AAPL", 50)
	require.NoError(t, err)
	o, err := Single(Market, leg)
	require.NoError(t, err)

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "Market", wire["order-type"])
	assert.Equal(t, "Day", wire["time-in-force"])
	assert.NotContains(t, wire, "price")
	assert.NotContains(t, wire, "price-effect")

	legs := wire["legs"].([]any)
	require.Len(t, legs, 1)
	first := legs[0].(map[string]any)
	assert.Equal(t, "Sell to Close", first["action"])
	assert.Equal(t, "AAPL", first["symbol"])
	assert.Equal(t, float64(50), first["quantity"])
	assert.Equal(t, "Equity", first["instrument-type"])
	// position-effect is an option-leg field only.
	assert.NotContains(t, first, "position-effect")
}

func TestMarshalJSON_LimitOptionOrder(t *testing.T) {
	leg, err := NewLeg(BuyToOpen, occCall, 2, WithInstrumentType(Option))
	require.NoError(t, err)
	o, err := Single(Limit, leg, WithPrice(decimal.NewFromFloat(2.45)), WithTimeInForce(GTC))
	require.NoError(t, err)

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "Limit", wire["order-type"])
	assert.Equal(t, "GTC", wire["time-in-force"])
	assert.Equal(t, "2.45", wire["price"])
	assert.Equal(t, "Debit", wire["price-effect"])

	legs := wire["legs"].([]any)
	first := legs[0].(map[string]any)
	assert.Equal(t, "Opening", first["position-effect"])
	assert.Equal(t, "Equity Option", first["instrument-type"])
}
