package api

import (
	"context"
	"fmt"
	"net/url"
)

// GetEquity fetches an equity instrument by symbol. Unknown or inactive
// symbols surface as an *APIError with a 404 status.
func (c *Client) GetEquity(ctx context.Context, symbol string) (*Equity, error) {
	resp, err := c.Get(ctx, "/instruments/equities/"+url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch equity %s: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var envelope dataEnvelope[Equity]
	if err := DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// GetOption fetches an equity option contract by its OCC symbol.
func (c *Client) GetOption(ctx context.Context, occSymbol string) (*Option, error) {
	resp, err := c.Get(ctx, "/instruments/equity-options/"+url.PathEscape(occSymbol))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch option %s: %w", occSymbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var envelope dataEnvelope[Option]
	if err := DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
