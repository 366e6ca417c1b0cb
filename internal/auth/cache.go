package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/tastycli/tasty/internal/config"
)

// tokenCache is the JSON structure for the cached token file.
type tokenCache struct {
	SessionToken string `json:"session_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// IsValid returns true if the token has not expired.
func (t *Token) IsValid() bool {
	return t.ExpiresAt > time.Now().Unix()
}

// SaveToken writes a token to the cache file.
// Creates parent directories if needed with 0700 permissions.
// The file is written with 0600 permissions.
func SaveToken(path string, token *Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	cache := tokenCache{
		SessionToken: token.SessionToken,
		ExpiresAt:    token.ExpiresAt,
	}
	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadToken reads a token from the cache file.
// Returns an error if the file doesn't exist or contains invalid JSON.
func LoadToken(path string) (*Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cache tokenCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}
	return &Token{
		SessionToken: cache.SessionToken,
		ExpiresAt:    cache.ExpiresAt,
	}, nil
}

// TokenCachePath returns the path to the token cache file, next to the
// CLI config.
func TokenCachePath() string {
	return filepath.Join(config.ConfigDir(), ".session_cache")
}
