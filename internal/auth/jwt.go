package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"solitaire-cipher/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every rejected session token: bad signature, wrong
// issuer, expired, or claims that do not name a user.
var ErrInvalidToken = errors.New("invalid session token")

var errNoSecret = errors.New("JWT_SECRET is required")

const tokenLeeway = 30 * time.Second

// Claims identify the key deck owner behind a session. Subject always holds
// UserID in decimal.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 session token for the user, valid for
// cfg.JWTTTL.
func GenerateToken(userID int64, username string, cfg config.Config) (string, error) {
	if cfg.JWTSecret == "" {
		return "", errNoSecret
	}
	if userID <= 0 {
		return "", fmt.Errorf("session token for user id %d", userID)
	}
	now := time.Now().UTC()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWTTTL)),
		},
	}).SignedString([]byte(cfg.JWTSecret))
}

// ParseAndValidateToken verifies a token from GenerateToken. Failures wrap
// ErrInvalidToken.
func ParseAndValidateToken(tokenString string, cfg config.Config) (*Claims, error) {
	if cfg.JWTSecret == "" {
		return nil, errNoSecret
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
	)
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, fmt.Errorf("%w: subject %q does not match user id %d", ErrInvalidToken, claims.Subject, claims.UserID)
	}
	return claims, nil
}
