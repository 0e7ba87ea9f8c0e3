package middleware

import (
	"net/http"
	"strings"

	"solitaire-cipher/internal/auth"
	"solitaire-cipher/internal/config"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests without a valid session token and stores the
// caller's userID and username on the context.
func RequireAuth(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// TokenFromRequest prefers the session cookie over an Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(auth.AuthCookieName); err == nil {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return BearerToken(c)
}

func BearerToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if authz == "" {
		return ""
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
