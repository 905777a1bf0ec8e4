package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/app"
	iauth "github.com/pricedesk/pricedesk/internal/auth"
	"github.com/pricedesk/pricedesk/internal/database"
	"github.com/pricedesk/pricedesk/internal/middleware"
	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/pkg/crypto"
)

var routerTestKey = "0123456789abcdef0123456789abcdef"

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAndSeed(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "router-secret", Issuer: "pricedesk-test"})
	require.NoError(t, err)

	cfg := &app.Config{}
	cfg.Auth.JWT.Secret = "router-secret"
	cfg.Auth.DataKey = routerTestKey
	cfg.Guard.Whitelist = []string{"/auth/sign-in", "/auth/register", "/api", "/health", "/metrics"}
	cfg.Guard.SignInPath = "/auth/sign-in"

	router, err := NewRouter(db, jwtSvc, cfg)
	require.NoError(t, err)
	return router, db
}

func loginPayload(t *testing.T, email, password string) []byte {
	t.Helper()

	plaintext, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	encrypted, err := crypto.Encrypt(plaintext, []byte(routerTestKey))
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"payload": encrypted})
	require.NoError(t, err)
	return body
}

func doLogin(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(loginPayload(t, email, password)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/users", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	token := doLogin(t, router, "admin@example.com", "admin123")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "admin@example.com")
}

func TestRouterBrandEditMaskedForUngrantedUser(t *testing.T) {
	router, db := newTestRouter(t)

	brand := &models.Brand{Name: "masked-brand"}
	require.NoError(t, db.Create(brand).Error)

	token := doLogin(t, router, "user@example.com", "user123")

	target := fmt.Sprintf("/api/brands/%d", brand.ID)
	body, _ := json.Marshal(map[string]any{"name": "renamed", "discount": 5})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	// Denied edit looks exactly like a missing brand.
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "NOT_FOUND")

	// Reads are unaffected.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterPDFListFilteredByGrants(t *testing.T) {
	router, db := newTestRouter(t)

	require.NoError(t, db.Create(&models.ProductPDF{Name: "router-pdf-a"}).Error)
	require.NoError(t, db.Create(&models.ProductPDF{Name: "router-pdf-b"}).Error)

	userToken := doLogin(t, router, "user@example.com", "user123")
	adminToken := doLogin(t, router, "admin@example.com", "admin123")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/pdfs", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "router-pdf-a")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/pdfs", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "router-pdf-a")
	require.Contains(t, w.Body.String(), "router-pdf-b")
}

func TestRouterGuardRedirectsPageNavigation(t *testing.T) {
	router, _ := newTestRouter(t)

	// A page path outside the whitelist without a cookie redirects to sign-in.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/brands", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/sign-in", w.Header().Get("Location"))
}

func TestRouterUISessionDecodesWithoutVerification(t *testing.T) {
	router, _ := newTestRouter(t)

	// Token signed with a different secret still decodes for UI hints.
	otherJWT, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "other-secret", Issuer: "elsewhere"})
	require.NoError(t, err)
	token, err := otherJWT.Issue(iauth.TokenInput{UserID: 7, Email: "ui@example.com", Roles: []string{"user"}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/auth/ui-session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ui@example.com")

	// But the same forged token fails authoritative verification.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
