package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/auth"
	"github.com/pricedesk/pricedesk/internal/middleware"
	"github.com/pricedesk/pricedesk/internal/services"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
	"github.com/pricedesk/pricedesk/pkg/response"
)

// AuthHandler serves login, registration and token introspection.
type AuthHandler struct {
	service *services.AuthService
	jwt     *auth.JWTService
}

// NewAuthHandler wires an AuthHandler against the database and token issuer.
func NewAuthHandler(db *gorm.DB, jwtService *auth.JWTService, dataKey []byte) (*AuthHandler, error) {
	svc, err := services.NewAuthService(db, jwtService, dataKey)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{service: svc, jwt: jwtService}, nil
}

type encryptedCredentialsRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// POST /api/auth/login
//
// The response sets the token cookie the route guard reads and echoes the
// token in the body for API clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var body encryptedCredentialsRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.service.Login(requestContext(c), body.Payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, result.Token, int(h.jwt.TTL().Seconds()), "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var body encryptedCredentialsRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.Register(requestContext(c), body.Payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"loggedOut": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	user, err := h.service.CurrentUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	claims, _ := middleware.ClaimsFromContext(c)
	response.Success(c, http.StatusOK, gin.H{
		"user":   user,
		"claims": claims,
	})
}

// GET /api/auth/ui-session
//
// Decodes the token cookie without verifying the signature so page chrome can
// render role-dependent navigation before any API roundtrip. Never treat the
// output as an authorization decision; the guard and the services re-verify.
func (h *AuthHandler) UISession(c *gin.Context) {
	token, err := c.Cookie(middleware.TokenCookieName)
	if err != nil || token == "" {
		response.Success(c, http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, err := auth.DecodeUnverified(token)
	if err != nil {
		response.Error(c, apperrors.New("AUTH_TOKEN_MALFORMED", "Token could not be decoded", http.StatusBadRequest))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"authenticated": true,
		"claims":        claims,
	})
}
