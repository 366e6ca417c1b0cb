package order

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Type is the execution style of an order.
type Type string

const (
	Market Type = "Market"
	Limit  Type = "Limit"
	Stop   Type = "Stop"
)

// TimeInForce controls how long an order stays working.
type TimeInForce string

const (
	Day TimeInForce = "Day"
	GTC TimeInForce = "GTC"
)

// PriceEffect is the wire-level direction of a limit price.
type PriceEffect string

const (
	Debit  PriceEffect = "Debit"
	Credit PriceEffect = "Credit"
)

// Order is an immutable aggregate of one or more legs plus execution
// parameters. Orders are built once per trading action and discarded after
// submission or a failed validation.
type Order struct {
	orderType   Type
	timeInForce TimeInForce
	legs        []Leg
	price       *decimal.Decimal
}

// OrderOption customizes order construction.
type OrderOption func(*Order)

// WithTimeInForce overrides the default Day time-in-force.
func WithTimeInForce(tif TimeInForce) OrderOption {
	return func(o *Order) { o.timeInForce = tif }
}

// WithPrice sets the limit price.
func WithPrice(p decimal.Decimal) OrderOption {
	return func(o *Order) { o.price = &p }
}

// New builds an order from its type and legs. Limit orders require a
// positive price; any provided price must be positive.
func New(orderType Type, legs []Leg, opts ...OrderOption) (Order, error) {
	switch orderType {
	case Market, Limit, Stop:
	default:
		return Order{}, &ConstructionError{Field: "order type", Message: fmt.Sprintf("%q is not one of Market, Limit, Stop", string(orderType))}
	}
	if len(legs) == 0 {
		return Order{}, &ConstructionError{Field: "legs", Message: "order must have at least one leg"}
	}

	o := Order{
		orderType:   orderType,
		timeInForce: Day,
		legs:        append([]Leg(nil), legs...),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.timeInForce != Day && o.timeInForce != GTC {
		return Order{}, &ConstructionError{Field: "time in force", Message: fmt.Sprintf("%q is not one of Day, GTC", string(o.timeInForce))}
	}
	if o.orderType == Limit && o.price == nil {
		return Order{}, &ConstructionError{Field: "price", Message: "limit orders require a price"}
	}
	if o.price != nil && !o.price.IsPositive() {
		return Order{}, &ConstructionError{Field: "price", Message: "must be greater than zero"}
	}

	return o, nil
}

// Single builds an order around exactly one leg.
func Single(orderType Type, leg Leg, opts ...OrderOption) (Order, error) {
	return New(orderType, []Leg{leg}, opts...)
}

// Type returns the order's execution style.
func (o Order) Type() Type { return o.orderType }

// TimeInForce returns the order's time-in-force.
func (o Order) TimeInForce() TimeInForce { return o.timeInForce }

// Legs returns a copy of the order's legs in submission order.
func (o Order) Legs() []Leg {
	return append([]Leg(nil), o.legs...)
}

// Price returns the limit price, or nil for unpriced orders.
func (o Order) Price() *decimal.Decimal {
	if o.price == nil {
		return nil
	}
	p := *o.price
	return &p
}

// IsMarket reports whether the order is a market order.
func (o Order) IsMarket() bool { return o.orderType == Market }

// IsLimit reports whether the order is a limit order.
func (o Order) IsLimit() bool { return o.orderType == Limit }

// IsStop reports whether the order is a stop order.
func (o Order) IsStop() bool { return o.orderType == Stop }

// DerivePriceEffect maps the FIRST leg's action to the wire price-effect:
// Debit for buy actions, Credit for sell actions. The rule deliberately
// looks at the first leg only, not a net aggregate across legs.
func DerivePriceEffect(first Leg) PriceEffect {
	if first.action.IsBuy() {
		return Debit
	}
	return Credit
}

// orderWire is the JSON shape the brokerage expects for an order. Price and
// price-effect are sent only for limit orders.
type orderWire struct {
	OrderType   string    `json:"order-type"`
	TimeInForce string    `json:"time-in-force"`
	Legs        []legWire `json:"legs"`
	Price       string    `json:"price,omitempty"`
	PriceEffect string    `json:"price-effect,omitempty"`
}

// MarshalJSON serializes the order into its wire form.
func (o Order) MarshalJSON() ([]byte, error) {
	w := orderWire{
		OrderType:   string(o.orderType),
		TimeInForce: string(o.timeInForce),
		Legs:        make([]legWire, 0, len(o.legs)),
	}
	for _, leg := range o.legs {
		w.Legs = append(w.Legs, leg.wire())
	}
	if o.orderType == Limit && o.price != nil {
		w.Price = o.price.Abs().String()
		w.PriceEffect = string(DerivePriceEffect(o.legs[0]))
	}
	return json.Marshal(w)
}
