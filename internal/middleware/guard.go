package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/pricedesk/pricedesk/internal/auth"
	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/internal/permissions"
	"github.com/pricedesk/pricedesk/pkg/logger"
	"github.com/pricedesk/pricedesk/pkg/metrics"
	"github.com/pricedesk/pricedesk/pkg/response"
)

// Redirect reason codes surfaced to the sign-in page.
const (
	GuardReasonParam     = "reason"
	ReasonSessionExpired = "SESSION_EXPIRED"
	ReasonInvalidToken   = "INVALID_TOKEN"
)

// GuardConfig controls the browser-facing route guard.
type GuardConfig struct {
	// Whitelist lists path prefixes exempt from any token check.
	Whitelist []string
	// SignInPath receives unauthenticated browsers.
	SignInPath string
}

// RouteGuard gates every non-whitelisted navigation. Admins pass
// unconditionally; everyone else needs a permission code matching the path
// (exact for "/", prefix otherwise). Denials are rewritten to the not-found
// response so guarded routes are indistinguishable from absent ones.
func RouteGuard(jwt *iauth.JWTService, cfg GuardConfig) gin.HandlerFunc {
	signIn := cfg.SignInPath
	if signIn == "" {
		signIn = "/auth/sign-in"
	}

	log := logger.WithModule("guard")

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, prefix := range cfg.Whitelist {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := c.Cookie(TokenCookieName)
		if err != nil || token == "" {
			metrics.GuardDecisions.WithLabelValues("redirect").Inc()
			c.Redirect(http.StatusFound, signIn)
			c.Abort()
			return
		}

		claims, err := jwt.Verify(token)
		if err != nil {
			reason := ReasonInvalidToken
			if errors.Is(err, iauth.ErrTokenExpired) {
				reason = ReasonSessionExpired
			}

			clearTokenCookie(c)
			metrics.GuardDecisions.WithLabelValues("redirect").Inc()
			log.Debug("token rejected", zap.String("path", path), zap.String("reason", reason))

			target := signIn + "?" + GuardReasonParam + "=" + url.QueryEscape(reason)
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		if claims.HasRole(models.AdminRoleName) {
			metrics.GuardDecisions.WithLabelValues("allow").Inc()
			c.Next()
			return
		}

		rules := permissions.RulesFromCodes(claims.Permissions)
		if !permissions.Allowed(rules, path) {
			// same body as an unknown route: do not reveal the route exists
			metrics.GuardDecisions.WithLabelValues("masked").Inc()
			response.NotFound(c)
			c.Abort()
			return
		}

		metrics.GuardDecisions.WithLabelValues("allow").Inc()
		c.Next()
	}
}

func clearTokenCookie(c *gin.Context) {
	c.SetCookie(TokenCookieName, "", -1, "/", "", false, true)
}
