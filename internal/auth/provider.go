package auth

import (
	"context"
	"os"
)

// GetToken returns a valid session token, logging in if necessary.
// It first tries to load a cached token. If the cached token is valid,
// it returns immediately. If the token is expired, missing, or corrupted,
// it creates a new session with the stored credentials and caches it.
func GetToken(ctx context.Context, cachePath, baseURL, username, password string) (*Token, error) {
	return GetTokenWithRefresh(ctx, cachePath, baseURL, username, password, false)
}

// GetTokenWithRefresh returns a valid session token.
// If forceRefresh is true, it ignores any cached token and logs in again.
// Use forceRefresh=true when you get a 401 error with a cached token.
func GetTokenWithRefresh(ctx context.Context, cachePath, baseURL, username, password string, forceRefresh bool) (*Token, error) {
	if !forceRefresh {
		token, err := LoadToken(cachePath)
		if err == nil && token.IsValid() {
			return token, nil
		}
	}

	// Token missing, expired, corrupted, or force refresh - log in again
	token, err := CreateSession(ctx, baseURL, username, password)
	if err != nil {
		return nil, err
	}

	// Cache the new token (ignore save errors - token is still usable)
	_ = SaveToken(cachePath, token)

	return token, nil
}

// ClearToken removes the cached token, forcing a login on next GetToken call.
func ClearToken(cachePath string) error {
	err := os.Remove(cachePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
