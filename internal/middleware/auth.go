package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/pricedesk/pricedesk/internal/auth"
	"github.com/pricedesk/pricedesk/pkg/errors"
	"github.com/pricedesk/pricedesk/pkg/response"
)

// TokenCookieName is the cookie the dashboard stores the signed token in.
const TokenCookieName = "token"

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
)

// Auth enforces token authentication for API routes. The token is taken from
// the Authorization header when present, falling back to the session cookie
// so browser-originated API calls work without extra client code.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(TokenCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.Verify(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[7:])
}

// ClaimsFromContext returns the verified claims stored by Auth.
func ClaimsFromContext(c *gin.Context) (*iauth.Claims, bool) {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*iauth.Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated caller's id.
func UserIDFromContext(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
