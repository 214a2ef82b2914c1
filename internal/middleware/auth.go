package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/httpx"
	"github.com/planzo/planzo-api/internal/session"
	"github.com/planzo/planzo-api/internal/user/token"
)

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// Auth returns a middleware that requires a valid, unrevoked access token in
// the Authorization header or the token cookie. On success the user id, token
// id and token expiry are stored in the gin context.
func Auth(tokens TokenParser, sessions session.Store, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			httpx.Unauthorized(c, "authentication required")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			logger.Debugw("Rejected token", "path", c.Request.URL.Path, "error", err)
			httpx.Unauthorized(c, "invalid or expired token")
			return
		}

		revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Errorw("Session store lookup failed", "token_id", claims.ID, "error", err)
			httpx.Internal(c)
			return
		}
		if revoked {
			httpx.Unauthorized(c, "token has been revoked")
			return
		}

		c.Set(httpx.ContextUserID, claims.Subject)
		c.Set(httpx.ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(httpx.ContextTokenExpiry, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value)
		}
		return ""
	}

	if cookie, err := c.Cookie(httpx.TokenCookie); err == nil {
		return cookie
	}
	return ""
}
