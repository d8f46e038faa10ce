package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "badger", config.Storage.Backend)
	assert.Equal(t, "10000", config.Account.InitialBalance)
	assert.False(t, config.IsProduction())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papertrade.toml")
	content := `
environment = "production"

[server]
port = 9090

[storage]
backend = "surrealdb"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "surrealdb", config.Storage.Backend)
	assert.True(t, config.IsProduction())
	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "10000", config.Account.InitialBalance)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PAPERTRADE_PORT", "7070")
	t.Setenv("PAPERTRADE_STORAGE_BACKEND", "surrealdb")
	t.Setenv("PAPERTRADE_AUTH_JWT_SECRET", "env-secret")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "surrealdb", config.Storage.Backend)
	assert.Equal(t, "env-secret", config.Auth.JWTSecret)
}

func TestQuandlConfig_GetTimeout(t *testing.T) {
	cfg := QuandlConfig{Timeout: "5s"}
	assert.Equal(t, "5s", cfg.GetTimeout().String())

	cfg.Timeout = "garbage"
	assert.Equal(t, "30s", cfg.GetTimeout().String())
}

func TestAuthConfig_GetTokenExpiry(t *testing.T) {
	cfg := AuthConfig{TokenExpiry: "1h"}
	assert.Equal(t, "1h0m0s", cfg.GetTokenExpiry().String())

	cfg.TokenExpiry = ""
	assert.Equal(t, "24h0m0s", cfg.GetTokenExpiry().String())
}
