package api

import (
	"github.com/shopspring/decimal"
)

// dataEnvelope is the standard response wrapper: every payload sits under
// a top-level "data" key.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// itemsEnvelope wraps list payloads: {"data": {"items": [...]}}.
type itemsEnvelope[T any] struct {
	Data struct {
		Items []T `json:"items"`
	} `json:"data"`
}

// Account describes one trading account of the customer.
type Account struct {
	AccountNumber   string `json:"account-number"`
	Nickname        string `json:"nickname"`
	AccountTypeName string `json:"account-type-name"`
	MarginOrCash    string `json:"margin-or-cash"`
	IsClosed        bool   `json:"is-closed"`
}

// TradingStatus reports what an account is currently allowed to trade.
type TradingStatus struct {
	ActiveRestrictions     []string `json:"active-restrictions"`
	CanTradeOptions        bool     `json:"can-trade-options"`
	CanTradeFutures        bool     `json:"can-trade-futures"`
	CanTradeCryptocurrency bool     `json:"can-trade-cryptocurrency"`
	IsClosingOnly          bool     `json:"is-closing-only"`
}

// Restricted reports whether any restriction is active on the account.
func (s *TradingStatus) Restricted() bool {
	return len(s.ActiveRestrictions) > 0
}

// Equity describes an equity instrument.
type Equity struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Option describes an equity option contract.
type Option struct {
	OCCSymbol    string          `json:"symbol"`
	Underlying   string          `json:"underlying-symbol"`
	Strike       decimal.Decimal `json:"strike-price"`
	Expiration   string          `json:"expiration-date"`
	ContractType string          `json:"option-type"`
	IsExpired    bool            `json:"is-expired"`
	Active       bool            `json:"active"`
}

// The method set below satisfies strategy.Option.

func (o *Option) Symbol() string               { return o.OCCSymbol }
func (o *Option) StrikePrice() decimal.Decimal { return o.Strike }
func (o *Option) ExpirationDate() string       { return o.Expiration }
func (o *Option) OptionType() string           { return o.ContractType }
func (o *Option) UnderlyingSymbol() string     { return o.Underlying }
func (o *Option) Expired() bool                { return o.IsExpired }

// Quote is a market-data snapshot for one symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Bid    decimal.Decimal `json:"bid"`
	Ask    decimal.Decimal `json:"ask"`
}

// BuyingPowerEffect is the projected capital impact of an order, as
// reported by a dry-run or live submission.
type BuyingPowerEffect struct {
	CurrentBuyingPower        decimal.Decimal `json:"current-buying-power"`
	NewBuyingPower            decimal.Decimal `json:"new-buying-power"`
	ChangeAmount              decimal.Decimal `json:"buying-power-change-amount"`
	UsagePercentage           decimal.Decimal `json:"buying-power-usage-percentage"`
	ChangeInMarginRequirement decimal.Decimal `json:"change-in-margin-requirement"`
}

// APIMessage is one error or warning attached to an order response.
type APIMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlacedOrder is the order record echoed back by the brokerage.
type PlacedOrder struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// OrderResponse is the result of placing an order, live or dry-run.
type OrderResponse struct {
	Order             PlacedOrder        `json:"order"`
	Errors            []APIMessage       `json:"errors"`
	Warnings          []APIMessage       `json:"warnings"`
	BuyingPowerEffect *BuyingPowerEffect `json:"buying-power-effect"`
}
