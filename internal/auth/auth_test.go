package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionJSON(token string) string {
	exp := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	return fmt.Sprintf(`{"data":{"session-token":%q,"session-expiration":%q}}`, token, exp)
}

func TestCreateSession_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sessions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "trader@example.com", body.Login)
		assert.Equal(t, "hunter2", body.Password)
		assert.True(t, body.RememberMe)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(sessionJSON("session-token-123")))
	}))
	defer server.Close()

	token, err := CreateSession(context.Background(), server.URL, "trader@example.com", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "session-token-123", token.SessionToken)
	// ExpiresAt should be roughly now + 24 hours
	expectedExpiry := time.Now().Add(24 * time.Hour).Unix()
	assert.InDelta(t, expectedExpiry, token.ExpiresAt, 5)
}

func TestCreateSession_HTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    string
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			body:       `{"error": {"code": "invalid_credentials", "message": "invalid login"}}`,
			wantErr:    "session creation failed: 401",
		},
		{
			name:       "forbidden",
			statusCode: http.StatusForbidden,
			body:       `{"error": {"code": "access_denied"}}`,
			wantErr:    "session creation failed: 403",
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			body:       `{"error": {"code": "internal"}}`,
			wantErr:    "session creation failed: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := CreateSession(context.Background(), server.URL, "user", "bad-password")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateSession_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("not valid json"))
	}))
	defer server.Close()

	_, err := CreateSession(context.Background(), server.URL, "user", "password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestCreateSession_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := CreateSession(context.Background(), server.URL, "user", "password")
	require.Error(t, err)
}

func TestCreateSession_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(sessionJSON("token")))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CreateSession(ctx, server.URL, "user", "password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestCreateSession_EmptySessionToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"session-token":""}}`))
	}))
	defer server.Close()

	_, err := CreateSession(context.Background(), server.URL, "user", "password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty session token")
}

func TestDestroySession(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := DestroySession(context.Background(), server.URL, "session-token-123")
	require.NoError(t, err)
	assert.Equal(t, "session-token-123", gotAuth)
}
