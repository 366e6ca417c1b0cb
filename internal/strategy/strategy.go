// Package strategy builds orders for single-leg and multi-leg option
// strategies. Each builder validates the structural invariants of its
// strategy before assembling legs, so a malformed spread never reaches the
// network.
package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tastycli/tasty/internal/order"
)

// Option is the capability set a strategy builder needs from an option
// contract. Both the API's option model and test fakes implement it.
type Option interface {
	Symbol() string
	StrikePrice() decimal.Decimal
	ExpirationDate() string
	OptionType() string
	UnderlyingSymbol() string
	Expired() bool
}

// Option type codes as they appear in OCC symbols.
const (
	Call = "C"
	Put  = "P"
)

// InvalidOptionError reports an option that cannot be traded at all: nil,
// missing capabilities, or expired. It is checked before any
// strategy-specific rule.
type InvalidOptionError struct {
	Message string
}

func (e *InvalidOptionError) Error() string {
	return "invalid option: " + e.Message
}

// InvalidStrategyError reports a violated strategy-shape invariant. The
// message names exactly which invariant failed.
type InvalidStrategyError struct {
	Strategy string
	Message  string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Strategy, e.Message)
}

// Params carries the shared order parameters for every builder: contract
// quantity and an optional limit price. A nil price yields a market order.
type Params struct {
	Quantity    int
	Price       *decimal.Decimal
	TimeInForce order.TimeInForce
}

// checkOption rejects nil and expired options before strategy rules run.
func checkOption(opt Option) error {
	if opt == nil {
		return &InvalidOptionError{Message: "option is required"}
	}
	if opt.Expired() {
		return &InvalidOptionError{Message: fmt.Sprintf("option %s is expired", opt.Symbol())}
	}
	return nil
}

func checkOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := checkOption(opt); err != nil {
			return err
		}
	}
	return nil
}

// optionLeg builds one option leg for the given action and quantity.
func optionLeg(action order.Action, opt Option, quantity int) (order.Leg, error) {
	return order.NewLeg(action, opt.Symbol(), quantity, order.WithInstrumentType(order.Option))
}

// wrap turns assembled legs into a Limit order when a price was given,
// otherwise a Market order.
func wrap(legs []order.Leg, p Params) (order.Order, error) {
	opts := []order.OrderOption{}
	if p.TimeInForce != "" {
		opts = append(opts, order.WithTimeInForce(p.TimeInForce))
	}
	if p.Price != nil {
		opts = append(opts, order.WithPrice(*p.Price))
		return order.New(order.Limit, legs, opts...)
	}
	return order.New(order.Market, legs, opts...)
}

// BuyCall opens a long call position.
func BuyCall(opt Option, p Params) (order.Order, error) {
	return singleLeg(order.BuyToOpen, opt, p)
}

// BuyPut opens a long put position.
func BuyPut(opt Option, p Params) (order.Order, error) {
	return singleLeg(order.BuyToOpen, opt, p)
}

// SellCall opens a short call position.
func SellCall(opt Option, p Params) (order.Order, error) {
	return singleLeg(order.SellToOpen, opt, p)
}

// SellPut opens a short put position.
func SellPut(opt Option, p Params) (order.Order, error) {
	return singleLeg(order.SellToOpen, opt, p)
}

func singleLeg(action order.Action, opt Option, p Params) (order.Order, error) {
	if err := checkOption(opt); err != nil {
		return order.Order{}, err
	}
	leg, err := optionLeg(action, opt, p.Quantity)
	if err != nil {
		return order.Order{}, err
	}
	return wrap([]order.Leg{leg}, p)
}

// ClosePosition closes an existing position in opt. The requested
// p.Quantity may be signed; the leg quantity is its absolute value.
func ClosePosition(opt Option, p Params) (order.Order, error) {
	if err := checkOption(opt); err != nil {
		return order.Order{}, err
	}
	if p.Quantity < 0 {
		p.Quantity = -p.Quantity
	}
	leg, err := optionLeg(closingAction(opt, p.Quantity), opt, p.Quantity)
	if err != nil {
		return order.Order{}, err
	}
	return wrap([]order.Leg{leg}, p)
}

// closingAction picks the action that closes a position in opt. Every path
// currently resolves to Sell to Close; the sign of the requested quantity
// only feeds the absolute leg quantity upstream.
// TODO: return Buy to Close for short positions once signed position
// quantities are threaded through from the positions endpoint.
func closingAction(_ Option, _ int) order.Action {
	return order.SellToClose
}

// VerticalSpread buys the long option and sells the short option. Both
// legs must share option type, expiration, and underlying.
func VerticalSpread(long, short Option, p Params) (order.Order, error) {
	if err := checkOptions(long, short); err != nil {
		return order.Order{}, err
	}
	if long.OptionType() != short.OptionType() {
		return order.Order{}, &InvalidStrategyError{Strategy: "vertical spread", Message: "both legs must be the same option type"}
	}
	if long.ExpirationDate() != short.ExpirationDate() {
		return order.Order{}, &InvalidStrategyError{Strategy: "vertical spread", Message: "both legs must have the same expiration date"}
	}
	if long.UnderlyingSymbol() != short.UnderlyingSymbol() {
		return order.Order{}, &InvalidStrategyError{Strategy: "vertical spread", Message: "both legs must have the same underlying symbol"}
	}

	legs, err := assemble(p.Quantity,
		legSpec{order.BuyToOpen, long, 1},
		legSpec{order.SellToOpen, short, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// IronCondor sells the put and call spreads around the current price:
// sell put_short, buy put_long below it, sell call_short, buy call_long
// above it.
func IronCondor(putShort, putLong, callShort, callLong Option, p Params) (order.Order, error) {
	if err := checkOptions(putShort, putLong, callShort, callLong); err != nil {
		return order.Order{}, err
	}
	if putShort.OptionType() != Put || putLong.OptionType() != Put {
		return order.Order{}, &InvalidStrategyError{Strategy: "iron condor", Message: "put legs must be puts"}
	}
	if callShort.OptionType() != Call || callLong.OptionType() != Call {
		return order.Order{}, &InvalidStrategyError{Strategy: "iron condor", Message: "call legs must be calls"}
	}
	if !putLong.StrikePrice().LessThan(putShort.StrikePrice()) {
		return order.Order{}, &InvalidStrategyError{Strategy: "iron condor", Message: "long put strike must be below short put strike"}
	}
	if !callLong.StrikePrice().GreaterThan(callShort.StrikePrice()) {
		return order.Order{}, &InvalidStrategyError{Strategy: "iron condor", Message: "long call strike must be above short call strike"}
	}
	exp := putShort.ExpirationDate()
	und := putShort.UnderlyingSymbol()
	for _, opt := range []Option{putLong, callShort, callLong} {
		if opt.ExpirationDate() != exp {
			return order.Order{}, &InvalidStrategyError{Strategy: "iron condor", Message: "all four legs must have the same expiration date"}
		}
		if opt.UnderlyingSymbol() != und {
			return order.Order{}, &InvalidStrategyError{Strategy: "iron condor", Message: "all four legs must have the same underlying symbol"}
		}
	}

	legs, err := assemble(p.Quantity,
		legSpec{order.SellToOpen, putShort, 1},
		legSpec{order.BuyToOpen, putLong, 1},
		legSpec{order.SellToOpen, callShort, 1},
		legSpec{order.BuyToOpen, callLong, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// IronButterfly sells a straddle at the center strike and buys symmetric
// protective wings.
func IronButterfly(shortCall, longCall, shortPut, longPut Option, p Params) (order.Order, error) {
	if err := checkOptions(shortCall, longCall, shortPut, longPut); err != nil {
		return order.Order{}, err
	}
	center := shortCall.StrikePrice()
	if !center.Equal(shortPut.StrikePrice()) {
		return order.Order{}, &InvalidStrategyError{Strategy: "iron butterfly", Message: "short call and short put must share the center strike"}
	}
	if !longCall.StrikePrice().GreaterThan(center) {
		return order.Order{}, &InvalidStrategyError{Strategy: "iron butterfly", Message: "long call strike must be above the center strike"}
	}
	if !longPut.StrikePrice().LessThan(center) {
		return order.Order{}, &InvalidStrategyError{Strategy: "iron butterfly", Message: "long put strike must be below the center strike"}
	}
	callWing := longCall.StrikePrice().Sub(center)
	putWing := center.Sub(longPut.StrikePrice())
	if !callWing.Equal(putWing) {
		return order.Order{}, &InvalidStrategyError{
			Strategy: "iron butterfly",
			Message:  fmt.Sprintf("wings must be equidistant from the center strike: call wing %s, put wing %s", callWing, putWing),
		}
	}

	legs, err := assemble(p.Quantity,
		legSpec{order.SellToOpen, shortCall, 1},
		legSpec{order.BuyToOpen, longCall, 1},
		legSpec{order.SellToOpen, shortPut, 1},
		legSpec{order.BuyToOpen, longPut, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// ButterflySpread buys the low and high wings and sells twice the quantity
// at the middle strike (1-2-1 ratio).
func ButterflySpread(longLow, shortMiddle, longHigh Option, p Params) (order.Order, error) {
	if err := checkOptions(longLow, shortMiddle, longHigh); err != nil {
		return order.Order{}, err
	}
	if longLow.OptionType() != shortMiddle.OptionType() || shortMiddle.OptionType() != longHigh.OptionType() {
		return order.Order{}, &InvalidStrategyError{Strategy: "butterfly spread", Message: "all three legs must be the same option type"}
	}
	low, mid, high := longLow.StrikePrice(), shortMiddle.StrikePrice(), longHigh.StrikePrice()
	if !low.LessThan(mid) || !mid.LessThan(high) {
		return order.Order{}, &InvalidStrategyError{Strategy: "butterfly spread", Message: "strikes must be strictly ascending: low < middle < high"}
	}
	if !mid.Sub(low).Equal(high.Sub(mid)) {
		return order.Order{}, &InvalidStrategyError{
			Strategy: "butterfly spread",
			Message:  fmt.Sprintf("wings must be equidistant from the middle strike: lower %s, upper %s", mid.Sub(low), high.Sub(mid)),
		}
	}

	legs, err := assemble(p.Quantity,
		legSpec{order.BuyToOpen, longLow, 1},
		legSpec{order.SellToOpen, shortMiddle, 2},
		legSpec{order.BuyToOpen, longHigh, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// CalendarSpread sells the near-dated option and buys the far-dated option
// at the same strike.
func CalendarSpread(short, long Option, p Params) (order.Order, error) {
	if err := checkOptions(short, long); err != nil {
		return order.Order{}, err
	}
	if !short.StrikePrice().Equal(long.StrikePrice()) {
		return order.Order{}, &InvalidStrategyError{Strategy: "calendar spread", Message: "both legs must have the same strike price"}
	}
	if short.OptionType() != long.OptionType() {
		return order.Order{}, &InvalidStrategyError{Strategy: "calendar spread", Message: "both legs must be the same option type"}
	}
	if short.UnderlyingSymbol() != long.UnderlyingSymbol() {
		return order.Order{}, &InvalidStrategyError{Strategy: "calendar spread", Message: "both legs must have the same underlying symbol"}
	}
	if short.ExpirationDate() == long.ExpirationDate() {
		return order.Order{}, &InvalidStrategyError{Strategy: "calendar spread", Message: "legs must have different expiration dates"}
	}
	if short.ExpirationDate() > long.ExpirationDate() {
		return order.Order{}, &InvalidStrategyError{Strategy: "calendar spread", Message: "short leg must expire before the long leg"}
	}

	legs, err := assemble(p.Quantity,
		legSpec{order.SellToOpen, short, 1},
		legSpec{order.BuyToOpen, long, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// DiagonalSpread sells the near-dated option and buys the far-dated option
// at a different strike.
func DiagonalSpread(short, long Option, p Params) (order.Order, error) {
	if err := checkOptions(short, long); err != nil {
		return order.Order{}, err
	}
	if short.StrikePrice().Equal(long.StrikePrice()) {
		return order.Order{}, &InvalidStrategyError{Strategy: "diagonal spread", Message: "legs must have different strike prices (use a calendar spread for equal strikes)"}
	}
	if short.OptionType() != long.OptionType() {
		return order.Order{}, &InvalidStrategyError{Strategy: "diagonal spread", Message: "both legs must be the same option type"}
	}
	if short.UnderlyingSymbol() != long.UnderlyingSymbol() {
		return order.Order{}, &InvalidStrategyError{Strategy: "diagonal spread", Message: "both legs must have the same underlying symbol"}
	}
	if short.ExpirationDate() == long.ExpirationDate() {
		return order.Order{}, &InvalidStrategyError{Strategy: "diagonal spread", Message: "legs must have different expiration dates"}
	}
	if short.ExpirationDate() > long.ExpirationDate() {
		return order.Order{}, &InvalidStrategyError{Strategy: "diagonal spread", Message: "short leg must expire before the long leg"}
	}

	legs, err := assemble(p.Quantity,
		legSpec{order.SellToOpen, short, 1},
		legSpec{order.BuyToOpen, long, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// Strangle opens a put and a call at different strikes with the same
// action on both legs.
func Strangle(put, call Option, action order.Action, p Params) (order.Order, error) {
	if err := checkOptions(put, call); err != nil {
		return order.Order{}, err
	}
	if put.OptionType() != Put {
		return order.Order{}, &InvalidStrategyError{Strategy: "strangle", Message: "first leg must be a put"}
	}
	if call.OptionType() != Call {
		return order.Order{}, &InvalidStrategyError{Strategy: "strangle", Message: "second leg must be a call"}
	}
	if put.ExpirationDate() != call.ExpirationDate() {
		return order.Order{}, &InvalidStrategyError{Strategy: "strangle", Message: "both legs must have the same expiration date"}
	}
	if put.UnderlyingSymbol() != call.UnderlyingSymbol() {
		return order.Order{}, &InvalidStrategyError{Strategy: "strangle", Message: "both legs must have the same underlying symbol"}
	}
	if put.StrikePrice().Equal(call.StrikePrice()) {
		return order.Order{}, &InvalidStrategyError{Strategy: "strangle", Message: "legs must have different strike prices (use a straddle for equal strikes)"}
	}

	legs, err := assemble(p.Quantity,
		legSpec{action, put, 1},
		legSpec{action, call, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// Straddle opens a put and a call at the same strike and expiration with
// the same action on both legs.
func Straddle(put, call Option, action order.Action, p Params) (order.Order, error) {
	if err := checkOptions(put, call); err != nil {
		return order.Order{}, err
	}
	if put.OptionType() != Put {
		return order.Order{}, &InvalidStrategyError{Strategy: "straddle", Message: "first leg must be a put"}
	}
	if call.OptionType() != Call {
		return order.Order{}, &InvalidStrategyError{Strategy: "straddle", Message: "second leg must be a call"}
	}
	if !put.StrikePrice().Equal(call.StrikePrice()) {
		return order.Order{}, &InvalidStrategyError{Strategy: "straddle", Message: "both legs must have the same strike price"}
	}
	if put.ExpirationDate() != call.ExpirationDate() {
		return order.Order{}, &InvalidStrategyError{Strategy: "straddle", Message: "both legs must have the same expiration date"}
	}

	legs, err := assemble(p.Quantity,
		legSpec{action, put, 1},
		legSpec{action, call, 1},
	)
	if err != nil {
		return order.Order{}, err
	}
	return wrap(legs, p)
}

// legSpec pairs an option with its action and per-unit ratio.
type legSpec struct {
	action order.Action
	opt    Option
	ratio  int
}

// assemble builds legs in the given order, scaling each ratio by the
// strategy quantity.
func assemble(quantity int, specs ...legSpec) ([]order.Leg, error) {
	legs := make([]order.Leg, 0, len(specs))
	for _, spec := range specs {
		leg, err := optionLeg(spec.action, spec.opt, quantity*spec.ratio)
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return legs, nil
}
