package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tastycli/tasty/internal/auth"
	"github.com/tastycli/tasty/internal/config"
	"github.com/tastycli/tasty/internal/keyring"
)

// getSessionToken retrieves stored credentials and returns a valid session
// token, logging in again if the cached token expired.
func getSessionToken(store keyring.Store, baseURL string, forceRefresh bool) (string, error) {
	username, err := store.Get(keyring.ServiceName, keyring.KeyUsername)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("CLI not configured. Run: tasty configure")
		}
		return "", fmt.Errorf("failed to retrieve username: %w", err)
	}
	password, err := store.Get(keyring.ServiceName, keyring.KeyPassword)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("CLI not configured. Run: tasty configure")
		}
		return "", fmt.Errorf("failed to retrieve password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := auth.GetTokenWithRefresh(ctx, auth.TokenCachePath(), baseURL, username, password, forceRefresh)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}

	return token.SessionToken, nil
}

// tradeOptions holds the resolved dependencies shared by every command
// that talks to the brokerage.
type tradeOptions struct {
	baseURL         string
	sessionToken    string
	accountNumber   string
	jsonMode        bool
	dryRunOnly      bool
	tradingDisabled bool
}

// loadTradeOptions resolves config, credentials, and the target account.
// An account flag value overrides the configured default.
func loadTradeOptions(accountFlag string) (tradeOptions, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return tradeOptions{}, fmt.Errorf("failed to load config: %w", err)
	}

	store := keyring.NewEnvStore(keyring.NewSystemStore())
	token, err := getSessionToken(store, cfg.BaseURL(), false)
	if err != nil {
		return tradeOptions{}, err
	}

	account := accountFlag
	if account == "" {
		account = cfg.AccountNumber
	}

	return tradeOptions{
		baseURL:         cfg.BaseURL(),
		sessionToken:    token,
		accountNumber:   account,
		jsonMode:        GetJSONMode(),
		dryRunOnly:      cfg.DryRunDefault,
		tradingDisabled: !cfg.TradingEnabled,
	}, nil
}
