package router // package router defines how HTTP routes are registered for the frontend

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edubridge/edubridge-web/internal/config"
	"github.com/edubridge/edubridge-web/internal/handler"
	"github.com/edubridge/edubridge-web/internal/middleware"
)

// RegisterRoutes registers routes that carry no session semantics.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the frontend is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential form endpoints.  Login and register
// sit behind the token-bucket limiter (the only brute-forceable surface of
// this frontend); logout and the session probe do not, since damping those
// only hurts legitimate users.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	limited := middleware.NewTokenBucket(rlCfg, rdb)

	// Credential submission endpoints.
	e.POST("/login", a.Login, limited)
	e.POST("/register", a.Register, limited)
	e.POST("/forgot-password", a.ForgotPassword, limited)
	e.POST("/reset-password", a.ResetPassword, limited)

	// Session management endpoints.
	e.POST("/logout", a.Logout)
	e.GET("/session", a.Session)
}
