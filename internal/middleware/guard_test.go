package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/pricedesk/pricedesk/internal/auth"
)

type guardFixture struct {
	router *gin.Engine
	jwt    *iauth.JWTService
	clock  *time.Time
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	current := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	fx := &guardFixture{clock: &current}

	svc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret: "guard-secret",
		TTL:    time.Hour,
		Clock:  func() time.Time { return *fx.clock },
	})
	require.NoError(t, err)
	fx.jwt = svc

	r := gin.New()
	r.Use(RouteGuard(svc, GuardConfig{
		Whitelist:  []string{"/auth", "/api", "/health"},
		SignInPath: "/auth/sign-in",
	}))

	ok := func(c *gin.Context) { c.String(http.StatusOK, "page") }
	r.GET("/", ok)
	r.GET("/brands", ok)
	r.GET("/brands/5", ok)
	r.GET("/projects", ok)
	r.GET("/admin/users", ok)
	r.GET("/auth/sign-in", ok)
	r.GET("/api/ping", ok)

	fx.router = r
	return fx
}

func (fx *guardFixture) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	}
	fx.router.ServeHTTP(w, req)
	return w
}

func (fx *guardFixture) issue(t *testing.T, roles, perms []string) string {
	t.Helper()

	token, err := fx.jwt.Issue(iauth.TokenInput{
		UserID:      1,
		Email:       "someone@example.com",
		Roles:       roles,
		Permissions: perms,
	})
	require.NoError(t, err)
	return token
}

func TestGuardWhitelistSkipsTokenCheck(t *testing.T) {
	fx := newGuardFixture(t)

	w := fx.get(t, "/auth/sign-in", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.get(t, "/api/ping", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGuardRedirectsWithoutToken(t *testing.T) {
	fx := newGuardFixture(t)

	w := fx.get(t, "/brands", "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/sign-in", w.Header().Get("Location"))
}

func TestGuardExpiredTokenRedirectsWithReason(t *testing.T) {
	fx := newGuardFixture(t)

	token := fx.issue(t, []string{"user"}, []string{"/brands"})
	*fx.clock = fx.clock.Add(2 * time.Hour)

	w := fx.get(t, "/brands", token)
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/auth/sign-in", loc.Path)
	require.Equal(t, ReasonSessionExpired, loc.Query().Get(GuardReasonParam))

	cookie := w.Header().Get("Set-Cookie")
	require.Contains(t, cookie, TokenCookieName+"=")
	require.Contains(t, cookie, "Max-Age=0")
}

func TestGuardTamperedTokenRedirectsWithReason(t *testing.T) {
	fx := newGuardFixture(t)

	other, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "other-secret", TTL: time.Hour})
	require.NoError(t, err)
	token, err := other.Issue(iauth.TokenInput{UserID: 1, Permissions: []string{"/brands"}})
	require.NoError(t, err)

	w := fx.get(t, "/brands", token)
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, ReasonInvalidToken, loc.Query().Get(GuardReasonParam))

	cookie := w.Header().Get("Set-Cookie")
	require.Contains(t, cookie, "Max-Age=0")
}

func TestGuardAdminBypassesPermissionChecks(t *testing.T) {
	fx := newGuardFixture(t)

	// admin has no permission codes at all, yet every path passes
	token := fx.issue(t, []string{"admin"}, nil)

	for _, path := range []string{"/", "/brands", "/projects", "/admin/users"} {
		w := fx.get(t, path, token)
		require.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestGuardPrefixAndExactMatching(t *testing.T) {
	fx := newGuardFixture(t)

	token := fx.issue(t, []string{"user"}, []string{"/brands"})

	w := fx.get(t, "/brands", token)
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.get(t, "/brands/5", token)
	require.Equal(t, http.StatusOK, w.Code)

	// denied paths masquerade as 404, never 403
	w = fx.get(t, "/projects", token)
	require.Equal(t, http.StatusNotFound, w.Code)

	// root needs an exact "/" grant
	w = fx.get(t, "/", token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuardRootGrantAllowsOnlyRoot(t *testing.T) {
	fx := newGuardFixture(t)

	token := fx.issue(t, []string{"user"}, []string{"/"})

	w := fx.get(t, "/", token)
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.get(t, "/brands", token)
	require.Equal(t, http.StatusNotFound, w.Code)
}
