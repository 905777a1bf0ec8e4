package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pricedesk/pricedesk/internal/middleware"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
	"github.com/pricedesk/pricedesk/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// actorID returns the authenticated user's ID, writing an unauthorized
// response when the auth middleware did not run.
func actorID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

// actorEmail returns the authenticated user's email for history attribution.
func actorEmail(c *gin.Context) string {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return ""
	}
	return claims.Email
}
