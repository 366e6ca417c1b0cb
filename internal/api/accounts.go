package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/tastycli/tasty/internal/order"
)

// GetAccounts fetches the customer's trading accounts.
func (c *Client) GetAccounts(ctx context.Context) ([]Account, error) {
	resp, err := c.Get(ctx, "/customers/me/accounts")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var envelope itemsEnvelope[struct {
		Account Account `json:"account"`
	}]
	if err := DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(envelope.Data.Items))
	for _, item := range envelope.Data.Items {
		accounts = append(accounts, item.Account)
	}
	return accounts, nil
}

// GetTradingStatus fetches the trading permissions and restrictions for an
// account.
func (c *Client) GetTradingStatus(ctx context.Context, accountNumber string) (*TradingStatus, error) {
	resp, err := c.Get(ctx, fmt.Sprintf("/accounts/%s/trading-status", accountNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trading status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var envelope dataEnvelope[TradingStatus]
	if err := DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// PlaceOrder submits an order for the account. With dryRun set, the
// brokerage evaluates the order's effects without executing it and reports
// errors, warnings, and the buying-power effect.
func (c *Client) PlaceOrder(ctx context.Context, accountNumber string, o order.Order, dryRun bool) (*OrderResponse, error) {
	body, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	path := fmt.Sprintf("/accounts/%s/orders", accountNumber)
	if dryRun {
		path += "/dry-run"
	}

	resp, err := c.Post(ctx, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var envelope dataEnvelope[OrderResponse]
	if err := DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
