package validate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tastycli/tasty/internal/api"
	"github.com/tastycli/tasty/internal/order"
)

const (
	maxQuantity = 999999
	maxPrice    = 999999
)

// usageWarnThreshold is the buying-power usage percentage above which a
// warning is attached.
var usageWarnThreshold = decimal.NewFromInt(50)

// Broker places orders and reports account trading status. *api.Client
// satisfies it.
type Broker interface {
	PlaceOrder(ctx context.Context, accountNumber string, o order.Order, dryRun bool) (*api.OrderResponse, error)
	GetTradingStatus(ctx context.Context, accountNumber string) (*api.TradingStatus, error)
}

// InstrumentSource looks up instruments for symbol validation. *api.Client
// satisfies it.
type InstrumentSource interface {
	GetEquity(ctx context.Context, symbol string) (*api.Equity, error)
}

// Pipeline validates one order against one account. Each instance is
// scoped to a single (broker, account, order) triple; trading status and
// the dry-run result are fetched at most once per instance.
type Pipeline struct {
	broker        Broker
	instruments   InstrumentSource
	accountNumber string
	order         order.Order

	// now is injectable for the market-hours heuristic.
	now func() time.Time

	status     *api.TradingStatus
	dryRunResp *api.OrderResponse
	dryRunErr  error
	dryRunDone bool
}

// New creates a pipeline for the given account and order.
func New(broker Broker, instruments InstrumentSource, accountNumber string, o order.Order) *Pipeline {
	return &Pipeline{
		broker:        broker,
		instruments:   instruments,
		accountNumber: accountNumber,
		order:         o,
		now:           time.Now,
	}
}

// Validate runs every check in order, accumulating findings without
// short-circuiting. With skipDryRun set, the buying-power stage is
// omitted. The returned error is an *OrderValidationError when any check
// produced an error finding; the outcome is returned either way.
func (p *Pipeline) Validate(ctx context.Context, skipDryRun bool) (Outcome, error) {
	checks := []func(context.Context) Outcome{
		p.checkStructure,
		p.checkSymbols,
		p.checkQuantities,
		p.checkPrices,
		p.checkPermissions,
		p.checkMarketHours,
	}
	if !skipDryRun {
		checks = append(checks, p.checkBuyingPower)
	}

	var outcome Outcome
	for _, check := range checks {
		outcome = outcome.merge(check(ctx))
	}

	if !outcome.OK() {
		return outcome, &OrderValidationError{Findings: outcome.Errors}
	}
	return outcome, nil
}

// checkStructure verifies the order's basic shape.
func (p *Pipeline) checkStructure(context.Context) Outcome {
	var out Outcome
	if len(p.order.Legs()) == 0 {
		out = out.merge(errorf(KindStructure, "order must have at least one leg"))
	}
	if p.order.IsLimit() && p.order.Price() == nil {
		out = out.merge(errorf(KindStructure, "limit orders require a price"))
	}
	if p.order.TimeInForce() == "" {
		out = out.merge(errorf(KindStructure, "time-in-force is required"))
	}
	return out
}

// checkSymbols verifies that each equity leg references a known
// instrument. Option and future symbols are not validated yet; those legs
// only produce a warning so the limitation stays visible.
func (p *Pipeline) checkSymbols(ctx context.Context) Outcome {
	var out Outcome
	for _, leg := range p.order.Legs() {
		switch leg.InstrumentType() {
		case order.Equity:
			if _, err := p.instruments.GetEquity(ctx, leg.Symbol()); err != nil {
				out = out.merge(errorf(KindSymbol, "invalid symbol %s: %s", leg.Symbol(), err))
			}
		case order.Option:
			out = out.merge(warnf(KindSymbol, "option symbol validation not yet implemented for %s", leg.Symbol()))
		case order.Future:
			out = out.merge(warnf(KindSymbol, "future symbol validation not yet implemented for %s", leg.Symbol()))
		}
	}
	return out
}

// checkQuantities verifies each leg quantity lies in [1, 999999].
func (p *Pipeline) checkQuantities(context.Context) Outcome {
	var out Outcome
	for _, leg := range p.order.Legs() {
		if leg.Quantity() < 1 {
			out = out.merge(errorf(KindQuantity, "quantity for %s must be at least 1", leg.Symbol()))
		}
		if leg.Quantity() > maxQuantity {
			out = out.merge(errorf(KindQuantity, "quantity for %s exceeds maximum of %d", leg.Symbol(), maxQuantity))
		}
	}
	return out
}

// checkPrices validates the limit price range and warns when the price is
// off the tick grid.
func (p *Pipeline) checkPrices(context.Context) Outcome {
	if !p.order.IsLimit() {
		return Outcome{}
	}
	price := p.order.Price()
	if price == nil {
		// Already reported by the structure check.
		return Outcome{}
	}

	var out Outcome
	if !price.IsPositive() {
		out = out.merge(errorf(KindPrice, "price must be greater than zero"))
	}
	if price.GreaterThan(decimal.NewFromInt(maxPrice)) {
		out = out.merge(errorf(KindPrice, "price exceeds maximum of %d", maxPrice))
	}
	if rounded := RoundToTick(*price); !rounded.Equal(*price) {
		out = out.merge(warnf(KindPrice, "price %s is not a multiple of the $0.01 tick; nearest valid price is %s", price, rounded))
	}
	return out
}

// tradingStatus fetches the account's trading status once per pipeline
// instance.
func (p *Pipeline) tradingStatus(ctx context.Context) (*api.TradingStatus, error) {
	if p.status != nil {
		return p.status, nil
	}
	status, err := p.broker.GetTradingStatus(ctx, p.accountNumber)
	if err != nil {
		return nil, err
	}
	p.status = status
	return status, nil
}

// checkPermissions verifies account restrictions and per-leg trading
// permissions.
func (p *Pipeline) checkPermissions(ctx context.Context) Outcome {
	status, err := p.tradingStatus(ctx)
	if err != nil {
		return errorf(KindPermission, "failed to fetch trading status: %s", err)
	}

	var out Outcome
	if status.Restricted() {
		out = out.merge(errorf(KindPermission, "account has active restrictions: %v", status.ActiveRestrictions))
	}

	for _, leg := range p.order.Legs() {
		switch leg.InstrumentType() {
		case order.Option:
			if !status.CanTradeOptions {
				out = out.merge(errorf(KindPermission, "account does not have options trading permission"))
			}
		case order.Future:
			if !status.CanTradeFutures {
				out = out.merge(errorf(KindPermission, "account does not have futures trading permission"))
			}
		case order.Cryptocurrency:
			if !status.CanTradeCryptocurrency {
				out = out.merge(errorf(KindPermission, "account does not have cryptocurrency trading permission"))
			}
		}
		if status.IsClosingOnly && leg.Action().IsOpening() {
			out = out.merge(errorf(KindPermission, "account is closing-only; %s is not allowed", leg.Action()))
		}
	}
	return out
}

// checkMarketHours warns when a market order is evaluated outside a naive
// 9:30-16:00 local-clock weekday window. Best effort only; it is not
// timezone-correct.
func (p *Pipeline) checkMarketHours(context.Context) Outcome {
	if !p.order.IsMarket() {
		return Outcome{}
	}

	now := p.now()
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return warnf(KindMarketHours, "market order placed on a weekend; it will not fill until the market opens")
	}
	minutes := now.Hour()*60 + now.Minute()
	if minutes < 9*60+30 || minutes > 16*60 {
		return warnf(KindMarketHours, "market order placed outside regular market hours (9:30-16:00)")
	}
	return Outcome{}
}

// checkBuyingPower runs the brokerage dry-run (once per instance) and
// validates the reported buying-power effect.
func (p *Pipeline) checkBuyingPower(ctx context.Context) Outcome {
	resp, err := p.dryRun(ctx)
	if err != nil {
		// Transport failures degrade into a single finding instead of
		// aborting the pass.
		return errorf(KindBuyingPower, "Dry-run validation failed: %s", err)
	}

	var out Outcome
	for _, msg := range resp.Errors {
		out = out.merge(errorf(KindBuyingPower, "%s", msg.Message))
	}
	for _, msg := range resp.Warnings {
		out = out.merge(warnf(KindBuyingPower, "%s", msg.Message))
	}

	effect := resp.BuyingPowerEffect
	if effect == nil {
		return out
	}
	if effect.NewBuyingPower.IsNegative() {
		out = out.merge(errorf(KindBuyingPower,
			"Insufficient buying power: this order requires %s but only %s is available",
			effect.ChangeAmount.Abs(), effect.CurrentBuyingPower))
	}
	if effect.UsagePercentage.GreaterThan(usageWarnThreshold) {
		out = out.merge(warnf(KindBuyingPower,
			"This order will use %s%% of available buying power",
			effect.UsagePercentage.StringFixed(1)))
	}
	if effect.ChangeInMarginRequirement.Abs().GreaterThan(effect.CurrentBuyingPower) {
		out = out.merge(errorf(KindBuyingPower,
			"Change in margin requirement %s exceeds current buying power %s",
			effect.ChangeInMarginRequirement.Abs(), effect.CurrentBuyingPower))
	}
	return out
}

// dryRun submits the order in dry-run mode, memoizing the result for the
// lifetime of the pipeline instance.
func (p *Pipeline) dryRun(ctx context.Context) (*api.OrderResponse, error) {
	if p.dryRunDone {
		return p.dryRunResp, p.dryRunErr
	}
	p.dryRunResp, p.dryRunErr = p.broker.PlaceOrder(ctx, p.accountNumber, p.order, true)
	p.dryRunDone = true
	return p.dryRunResp, p.dryRunErr
}
