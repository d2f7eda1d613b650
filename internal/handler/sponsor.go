package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/edubridge-web/internal/middleware"
	"github.com/edubridge/edubridge-web/internal/model"
	"github.com/edubridge/edubridge-web/internal/service"
)

// SponsorHandler serves the sponsor route group: managing scholarship
// listings and deciding on the applications made to them.
type SponsorHandler struct{}

func NewSponsorHandler() *SponsorHandler { return &SponsorHandler{} }

type statusReq struct {
	Status string `json:"status"`
}

// Dashboard summarizes the sponsor's listings and pending review load.
func (h *SponsorHandler) Dashboard(c echo.Context) error {
	s := middleware.CurrentSession(c)
	ctx := c.Request().Context()

	listings, err := service.NewScholarshipService(s.API()).Mine(ctx)
	if err != nil {
		return respondError(c, err)
	}
	apps, err := service.NewApplicationService(s.API()).ForSponsor(ctx)
	if err != nil {
		return respondError(c, err)
	}
	pending := 0
	for _, a := range apps {
		if a.Status == model.ApplicationPending {
			pending++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":                 s.User(),
		"scholarships_total":   len(listings),
		"applications_total":   len(apps),
		"applications_pending": pending,
	})
}

// CreateScholarship publishes a new listing.
func (h *SponsorHandler) CreateScholarship(c echo.Context) error {
	in, ok := bindScholarshipInput(c)
	if !ok {
		return nil // response already written
	}
	s := middleware.CurrentSession(c)
	sch, err := service.NewScholarshipService(s.API()).Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sch)
}

// Scholarships lists the sponsor's own listings.
func (h *SponsorHandler) Scholarships(c echo.Context) error {
	s := middleware.CurrentSession(c)
	list, err := service.NewScholarshipService(s.API()).Mine(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateScholarship edits a listing.  Ownership is enforced by the backend.
func (h *SponsorHandler) UpdateScholarship(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scholarship id"})
	}
	in, ok := bindScholarshipInput(c)
	if !ok {
		return nil
	}
	s := middleware.CurrentSession(c)
	sch, err := service.NewScholarshipService(s.API()).Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sch)
}

// DeleteScholarship removes a listing.
func (h *SponsorHandler) DeleteScholarship(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scholarship id"})
	}
	s := middleware.CurrentSession(c)
	if err := service.NewScholarshipService(s.API()).Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Applications lists applications made to the sponsor's listings.
func (h *SponsorHandler) Applications(c echo.Context) error {
	s := middleware.CurrentSession(c)
	apps, err := service.NewApplicationService(s.API()).ForSponsor(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apps)
}

// UpdateApplicationStatus approves or rejects one application.
func (h *SponsorHandler) UpdateApplicationStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if !model.ValidApplicationStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	}
	s := middleware.CurrentSession(c)
	app, err := service.NewApplicationService(s.API()).UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, app)
}

// Profile and UpdateProfile mirror the student handlers; the backend keeps
// the role-specific fields apart.
func (h *SponsorHandler) Profile(c echo.Context) error {
	s := middleware.CurrentSession(c)
	u, err := service.NewAuthService(s.API()).Profile(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *SponsorHandler) UpdateProfile(c echo.Context) error {
	var in service.ProfileInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s := middleware.CurrentSession(c)
	u, err := service.NewAuthService(s.API()).UpdateProfile(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// bindScholarshipInput binds and validates the listing form.  On failure it
// writes the 400 itself and reports ok=false.
func bindScholarshipInput(c echo.Context) (model.ScholarshipInput, bool) {
	var in model.ScholarshipInput
	if err := c.Bind(&in); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return in, false
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.Amount == 0 || strings.TrimSpace(in.Deadline) == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "title/amount/deadline required"})
		return in, false
	}
	return in, true
}
