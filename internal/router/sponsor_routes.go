package router

import (
	"github.com/labstack/echo/v4"

	"github.com/edubridge/edubridge-web/internal/handler"
	"github.com/edubridge/edubridge-web/internal/middleware"
	"github.com/edubridge/edubridge-web/internal/model"
)

// RegisterSponsor registers the sponsor route group.  All routes require an
// authenticated session with the sponsor role.  Sponsors manage their own
// listings and decide on the applications made to them; ownership checks on
// individual resources are the backend's responsibility.
func RegisterSponsor(e *echo.Echo, h *handler.SponsorHandler) {
	g := e.Group(
		"/sponsor",
		middleware.RequireAuth(),
		middleware.RequireRole(model.RoleSponsor),
	)

	g.GET("/dashboard", h.Dashboard)
	g.POST("/scholarships", h.CreateScholarship)
	g.GET("/scholarships", h.Scholarships)
	g.PUT("/scholarships/:id", h.UpdateScholarship)
	g.DELETE("/scholarships/:id", h.DeleteScholarship)
	g.GET("/applications", h.Applications)
	g.PATCH("/applications/:id/status", h.UpdateApplicationStatus)
	g.GET("/profile", h.Profile)
	g.PUT("/profile", h.UpdateProfile)
}
