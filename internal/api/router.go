package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/app"
	iauth "github.com/pricedesk/pricedesk/internal/auth"
	"github.com/pricedesk/pricedesk/internal/handlers"
	"github.com/pricedesk/pricedesk/internal/middleware"
	"github.com/pricedesk/pricedesk/pkg/response"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
//
// Two layers of authorization apply. The route guard intercepts browser
// navigations (anything outside the whitelist) using the claims cookie, and
// the Auth middleware plus per-resource checks inside the services protect
// the JSON API under /api.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RouteGuard(jwt, middleware.GuardConfig{
		Whitelist:  cfg.Guard.Whitelist,
		SignInPath: cfg.Guard.SignInPath,
	}))

	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	dataKey := []byte(cfg.Auth.DataKey)
	authHandler, err := handlers.NewAuthHandler(db, jwt, dataKey)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	public := r.Group("/api/auth")
	{
		public.POST("/login", authHandler.Login)
		public.POST("/register", authHandler.Register)
		public.GET("/ui-session", authHandler.UISession)
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)

	if err := registerUserRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerRoleRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerCatalogRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerPricingRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerProjectRoutes(api, db); err != nil {
		return nil, err
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})

	return r, nil
}
