package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/edubridge-web/internal/middleware"
	"github.com/edubridge/edubridge-web/internal/model"
	"github.com/edubridge/edubridge-web/internal/queue"
	"github.com/edubridge/edubridge-web/internal/service"
)

// StudentHandler serves the student route group: browsing and searching
// scholarships, applying, and tracking application status.  Services are
// built per request from the session's backend client so every call carries
// that session's credentials.
type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

// Dashboard summarizes the student's standing: their profile plus
// application counts by status.
func (h *StudentHandler) Dashboard(c echo.Context) error {
	s := middleware.CurrentSession(c)
	apps, err := service.NewApplicationService(s.API()).Mine(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	counts := map[string]int{}
	for _, a := range apps {
		counts[a.Status]++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":               s.User(),
		"applications_total": len(apps),
		"applications":       counts,
	})
}

// Scholarships lists scholarships, honoring the category/min_amount/q query
// filters.
func (h *StudentHandler) Scholarships(c echo.Context) error {
	f := model.ScholarshipFilters{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Query:    strings.TrimSpace(c.QueryParam("q")),
	}
	if v := c.QueryParam("min_amount"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.MinAmount = n
		}
	}
	s := middleware.CurrentSession(c)
	list, err := service.NewScholarshipService(s.API()).List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// SearchScholarships runs a free-text search over listings.
func (h *StudentHandler) SearchScholarships(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q required"})
	}
	s := middleware.CurrentSession(c)
	list, err := service.NewScholarshipService(s.API()).Search(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Scholarship shows one listing's detail page data.
func (h *StudentHandler) Scholarship(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scholarship id"})
	}
	s := middleware.CurrentSession(c)
	sch, err := service.NewScholarshipService(s.API()).Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sch)
}

// Apply submits an application to a scholarship and announces it on the
// broker.  A publish failure is logged inside the publisher and otherwise
// ignored; the application already exists on the backend.
func (h *StudentHandler) Apply(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scholarship id"})
	}
	var in model.ApplicationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(in.Essay) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "essay required"})
	}

	s := middleware.CurrentSession(c)
	ctx := c.Request().Context()
	app, err := service.NewApplicationService(s.API()).Apply(ctx, id, in)
	if err != nil {
		return respondError(c, err)
	}

	evt := queue.ApplicationSubmittedEvent{
		ApplicationID: app.ID,
		ScholarshipID: app.ScholarshipID,
		StudentID:     app.StudentID,
		SubmittedAt:   app.SubmittedAt.UTC().Format(time.RFC3339),
	}
	evt.ScholarshipTitle = app.ScholarshipTitle
	if u := s.User(); u != nil {
		evt.StudentEmail = u.Email
	}
	_ = queue.PublishApplicationSubmitted(ctx, evt)

	return c.JSON(http.StatusCreated, app)
}

// Applications lists the student's own applications.
func (h *StudentHandler) Applications(c echo.Context) error {
	s := middleware.CurrentSession(c)
	apps, err := service.NewApplicationService(s.API()).Mine(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apps)
}

// Profile returns the authoritative profile record from the backend.
func (h *StudentHandler) Profile(c echo.Context) error {
	s := middleware.CurrentSession(c)
	u, err := service.NewAuthService(s.API()).Profile(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateProfile writes profile edits through to the backend.
func (h *StudentHandler) UpdateProfile(c echo.Context) error {
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
