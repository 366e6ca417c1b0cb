package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{
			name:      "valid token - expires in future",
			expiresAt: time.Now().Unix() + 3600,
			want:      true,
		},
		{
			name:      "expired token - expires in past",
			expiresAt: time.Now().Unix() - 60,
			want:      false,
		},
		{
			name:      "expired token - expires now",
			expiresAt: time.Now().Unix(),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{
				SessionToken: "test-token",
				ExpiresAt:    tt.expiresAt,
			}
			assert.Equal(t, tt.want, token.IsValid())
		})
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, ".session_cache")

	token := &Token{
		SessionToken: "my-session-token",
		ExpiresAt:    time.Now().Unix() + 3600,
	}

	require.NoError(t, SaveToken(cachePath, token))

	// Verify permissions
	info, err := os.Stat(cachePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadToken(cachePath)
	require.NoError(t, err)
	assert.Equal(t, token.SessionToken, loaded.SessionToken)
	assert.Equal(t, token.ExpiresAt, loaded.ExpiresAt)
}

func TestSaveToken_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, "nested", "dir", ".session_cache")

	token := &Token{SessionToken: "tok", ExpiresAt: time.Now().Unix() + 60}
	require.NoError(t, SaveToken(cachePath, token))

	_, err := os.Stat(cachePath)
	assert.NoError(t, err)
}

func TestLoadToken_Missing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadToken_Corrupted(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, ".session_cache")
	require.NoError(t, os.WriteFile(cachePath, []byte("{not json"), 0600))

	_, err := LoadToken(cachePath)
	assert.Error(t, err)
}

func TestTokenCachePath_UsesConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	path := TokenCachePath()
	assert.Equal(t, filepath.Join("/custom/config", "tasty", ".session_cache"), path)
}
