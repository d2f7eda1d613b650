package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edubridge/edubridge-web/internal/config"
	"github.com/edubridge/edubridge-web/internal/handler"
	"github.com/edubridge/edubridge-web/internal/middleware"
	"github.com/edubridge/edubridge-web/internal/model"
)

// RegisterStudent registers the student route group.  Every route requires
// an authenticated session with the student role; sponsors landing here are
// redirected to their own dashboard by the guard.  The scholarship browse
// and search proxies additionally sit behind the Redis response cache since
// their payloads are identical for every student.
func RegisterStudent(e *echo.Echo, h *handler.StudentHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group(
		"/student",
		middleware.RequireAuth(),
		middleware.RequireRole(model.RoleStudent),
	)

	cached := middleware.ResponseCache(cacheCfg, rdb)

	g.GET("/dashboard", h.Dashboard)
	g.GET("/scholarships", h.Scholarships, cached)
	g.GET("/scholarships/search", h.SearchScholarships, cached)
	g.GET("/scholarships/:id", h.Scholarship)
	g.POST("/scholarships/:id/apply", h.Apply)
	g.GET("/applications", h.Applications)
	g.GET("/profile", h.Profile)
	g.PUT("/profile", h.UpdateProfile)
}
