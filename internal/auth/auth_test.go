package auth

import (
	"strings"
	"testing"
	"time"

	"solitaire-cipher/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "secret", JWTIssuer: "solitaire-cipher", JWTTTL: time.Hour}
}

func TestToken_RoundTrip(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateToken(42, "alice", cfg)
	require.NoError(t, err)

	claims, err := ParseAndValidateToken(tok, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestToken_Rejected(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateToken(1, "bob", cfg)
	require.NoError(t, err)

	other := cfg
	other.JWTSecret = "different"
	_, err = ParseAndValidateToken(tok, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other = cfg
	other.JWTIssuer = "someone-else"
	_, err = ParseAndValidateToken(tok, other)
	assert.Error(t, err)

	expired := cfg
	expired.JWTTTL = -time.Hour
	tok, err = GenerateToken(1, "bob", expired)
	require.NoError(t, err)
	_, err = ParseAndValidateToken(tok, cfg)
	assert.Error(t, err)
}

func TestToken_RejectsForeignClaims(t *testing.T) {
	cfg := testConfig()
	sign := func(method jwt.SigningMethod, key any, c Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, c).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() Claims {
		now := time.Now()
		return Claims{
			UserID:   9,
			Username: "mallory",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    cfg.JWTIssuer,
				Subject:   "9",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	_, err := ParseAndValidateToken(sign(jwt.SigningMethodHS256, []byte(cfg.JWTSecret), valid()), cfg)
	require.NoError(t, err)

	mismatched := valid()
	mismatched.Subject = "1"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	noUser := valid()
	noUser.UserID = 0
	noUser.Subject = "0"

	tests := map[string]string{
		"subject mismatch": sign(jwt.SigningMethodHS256, []byte(cfg.JWTSecret), mismatched),
		"no expiry":        sign(jwt.SigningMethodHS256, []byte(cfg.JWTSecret), noExpiry),
		"no user":          sign(jwt.SigningMethodHS256, []byte(cfg.JWTSecret), noUser),
		"hs512":            sign(jwt.SigningMethodHS512, []byte(cfg.JWTSecret), valid()),
		"unsigned":         sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid()),
		"garbage":          "not.a.token",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAndValidateToken(tok, cfg)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = GenerateToken(0, "nobody", cfg)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswordHash(hash, "correct horse"))
	assert.Error(t, ComparePasswordHash(hash, "wrong horse"))

	for _, bad := range []string{"", "short", strings.Repeat("a", 73)} {
		_, err := HashPassword(bad)
		assert.True(t, IsPasswordValidationError(err), "password %q", bad)
	}
}
