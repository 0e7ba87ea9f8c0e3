package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("BACKEND_ADDR", "")
	t.Setenv("PORT", "8080")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_TTL_MINUTES", "")
	t.Setenv("MAX_MESSAGE_LETTERS", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "solitaire-cipher", cfg.JWTIssuer)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, defaultMaxMessageLetters, cfg.MaxMessageLetters)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BACKEND_ADDR", "127.0.0.1:9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("WS_ALLOW_QUERY_TOKENS", "true")
	t.Setenv("MAX_MESSAGE_LETTERS", "100")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.WSAllowedOrigins)
	assert.True(t, cfg.WSAllowQueryTokens)
	assert.Equal(t, 100, cfg.MaxMessageLetters)
}

func TestLoadFromEnv_Missing(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("BACKEND_ADDR", "")
	t.Setenv("PORT", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DATABASE_PATH")
	assert.Contains(t, err.Error(), "BACKEND_ADDR (or PORT)")
}
