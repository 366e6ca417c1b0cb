package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// GetMarketData fetches the current quote for one symbol.
func (c *Client) GetMarketData(ctx context.Context, symbol string) (*Quote, error) {
	resp, err := c.Get(ctx, "/market-data/"+url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var envelope dataEnvelope[Quote]
	if err := DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// GetQuote returns the bid and ask for a symbol. This satisfies
// strategy.QuoteSource.
func (c *Client) GetQuote(ctx context.Context, symbol string) (decimal.Decimal, decimal.Decimal, error) {
	quote, err := c.GetMarketData(ctx, symbol)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return quote.Bid, quote.Ask, nil
}
