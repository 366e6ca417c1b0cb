package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sessionLifetime is how long a session token is honored by the API.
const sessionLifetime = 24 * time.Hour

// Token represents a session token with its expiry.
type Token struct {
	SessionToken string
	ExpiresAt    int64
}

// loginRequest is the body for the session-creation endpoint.
type loginRequest struct {
	Login      string `json:"login"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember-me"`
}

// sessionResponse is the API response from session creation.
type sessionResponse struct {
	Data struct {
		SessionToken      string `json:"session-token"`
		RememberToken     string `json:"remember-token"`
		SessionExpiration string `json:"session-expiration"`
	} `json:"data"`
}

// CreateSession exchanges login credentials for a session token.
func CreateSession(ctx context.Context, baseURL, username, password string) (*Token, error) {
	body, err := json.Marshal(loginRequest{Login: username, Password: password, RememberMe: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	url := baseURL + "/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		if len(respBody) > 0 {
			return nil, fmt.Errorf("session creation failed: %d - %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("session creation failed: %d", resp.StatusCode)
	}

	var sessionResp sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if sessionResp.Data.SessionToken == "" {
		return nil, fmt.Errorf("empty session token in response")
	}

	expiresAt := time.Now().Add(sessionLifetime).Unix()
	if exp := sessionResp.Data.SessionExpiration; exp != "" {
		if t, err := time.Parse(time.RFC3339, exp); err == nil {
			expiresAt = t.Unix()
		}
	}
	return &Token{
		SessionToken: sessionResp.Data.SessionToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// DestroySession invalidates a session token on the server side.
func DestroySession(ctx context.Context, baseURL, sessionToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, baseURL+"/sessions", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", sessionToken)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("session destruction failed: %d", resp.StatusCode)
	}
	return nil
}
