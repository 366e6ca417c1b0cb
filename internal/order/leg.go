// Package order defines the immutable order and leg value types that the
// strategy builder produces and the validation pipeline consumes.
package order

import (
	"fmt"
	"regexp"
)

// Action is the direction of a single order leg.
type Action string

const (
	BuyToOpen   Action = "Buy to Open"
	SellToOpen  Action = "Sell to Open"
	BuyToClose  Action = "Buy to Close"
	SellToClose Action = "Sell to Close"
)

// IsBuy reports whether the action is a buy (debit) action.
func (a Action) IsBuy() bool {
	return a == BuyToOpen || a == BuyToClose
}

// IsOpening reports whether the action opens a position.
func (a Action) IsOpening() bool {
	return a == BuyToOpen || a == SellToOpen
}

func (a Action) valid() bool {
	switch a {
	case BuyToOpen, SellToOpen, BuyToClose, SellToClose:
		return true
	}
	return false
}

// InstrumentType identifies the asset class of a leg.
type InstrumentType string

const (
	Equity         InstrumentType = "Equity"
	Option         InstrumentType = "Equity Option"
	Future         InstrumentType = "Future"
	Cryptocurrency InstrumentType = "Cryptocurrency"
)

// PositionEffect records whether a leg opens or closes a position.
type PositionEffect string

const (
	Opening PositionEffect = "Opening"
	Closing PositionEffect = "Closing"
	Auto    PositionEffect = "Auto"
)

func (p PositionEffect) valid() bool {
	switch p {
	case Opening, Closing, Auto:
		return true
	}
	return false
}

// ConstructionError reports a malformed leg or order. Construction fails
// fast on the first violated condition.
type ConstructionError struct {
	Field   string
	Message string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// occSymbolPattern matches OCC-style option symbols: a root token, a run of
// spaces padding it, a 6-digit YYMMDD expiration, C or P, and an 8-digit
// strike in thousandths. Example: "AAPL  250117C00175000".
var occSymbolPattern = regexp.MustCompile(`^[A-Z0-9./]{1,6} +\d{6}[CP]\d{8}$`)

// IsOCCSymbol reports whether symbol is a well-formed OCC option symbol.
func IsOCCSymbol(symbol string) bool {
	return occSymbolPattern.MatchString(symbol)
}

// Leg is one instrument action line of an order. Legs are constructed once
// and never mutated.
type Leg struct {
	action         Action
	symbol         string
	quantity       int
	instrumentType InstrumentType
	positionEffect PositionEffect
}

// LegOption customizes leg construction.
type LegOption func(*Leg)

// WithInstrumentType overrides the default Equity instrument type.
func WithInstrumentType(t InstrumentType) LegOption {
	return func(l *Leg) { l.instrumentType = t }
}

// WithPositionEffect sets an explicit position effect instead of deriving
// it from the action.
func WithPositionEffect(p PositionEffect) LegOption {
	return func(l *Leg) { l.positionEffect = p }
}

// NewLeg builds a leg for the given action, symbol, and contract or share
// quantity. The instrument type defaults to Equity; the position effect is
// derived from the action unless set explicitly. Quantity range limits are
// the validation pipeline's concern, not a construction error.
func NewLeg(action Action, symbol string, quantity int, opts ...LegOption) (Leg, error) {
	if !action.valid() {
		return Leg{}, &ConstructionError{Field: "action", Message: fmt.Sprintf("%q is not a recognized order action", string(action))}
	}

	leg := Leg{
		action:         action,
		symbol:         symbol,
		quantity:       quantity,
		instrumentType: Equity,
	}
	for _, opt := range opts {
		opt(&leg)
	}

	if leg.instrumentType == Option && !IsOCCSymbol(leg.symbol) {
		return Leg{}, &ConstructionError{Field: "symbol", Message: fmt.Sprintf("%q is not a valid OCC option symbol", leg.symbol)}
	}
	if leg.positionEffect != "" && !leg.positionEffect.valid() {
		return Leg{}, &ConstructionError{Field: "position effect", Message: fmt.Sprintf("%q is not one of Opening, Closing, Auto", string(leg.positionEffect))}
	}
	if leg.positionEffect == "" {
		leg.positionEffect = DerivePositionEffect(leg.action)
	}

	return leg, nil
}

// DerivePositionEffect maps an action to its default position effect:
// opening actions open, closing actions close.
func DerivePositionEffect(a Action) PositionEffect {
	if a.IsOpening() {
		return Opening
	}
	return Closing
}

// Action returns the leg's action.
func (l Leg) Action() Action { return l.action }

// Symbol returns the leg's instrument symbol.
func (l Leg) Symbol() string { return l.symbol }

// Quantity returns the leg's quantity.
func (l Leg) Quantity() int { return l.quantity }

// InstrumentType returns the leg's asset class.
func (l Leg) InstrumentType() InstrumentType { return l.instrumentType }

// PositionEffect returns the leg's position effect.
func (l Leg) PositionEffect() PositionEffect { return l.positionEffect }

// legWire is the JSON shape the brokerage expects for a leg. The
// position-effect field is sent only for option legs.
type legWire struct {
	Action         string `json:"action"`
	Symbol         string `json:"symbol"`
	Quantity       int    `json:"quantity"`
	InstrumentType string `json:"instrument-type"`
	PositionEffect string `json:"position-effect,omitempty"`
}

func (l Leg) wire() legWire {
	w := legWire{
		Action:         string(l.action),
		Symbol:         l.symbol,
		Quantity:       l.quantity,
		InstrumentType: string(l.instrumentType),
	}
	if l.instrumentType == Option {
		w.PositionEffect = string(l.positionEffect)
	}
	return w
}
