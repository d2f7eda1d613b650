// Package handler exposes the HTTP handlers of the frontend: thin form and
// proxy endpoints that call the data-access services and translate their
// errors into UI-ready responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/edubridge-web/internal/apiclient"
	"github.com/edubridge/edubridge-web/internal/middleware"
)

// respondError maps a service error onto the response the page layer needs:
// an expired session becomes a redirect to the login entry point, a backend
// error keeps its status and normalized message (plus field errors for
// inline form display), and anything else (typically a network failure
// talking to the backend) is a 502 with prior page state left intact on
// the client.
func respondError(c echo.Context, err error) error {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		// The client already wiped the credential store; flip the in-memory
		// session to match before sending the browser to the login page.
		if s := middleware.CurrentSession(c); s != nil {
			if lerr := s.Logout(c.Request().Context()); lerr != nil {
				c.Logger().Errorf("expiring session failed: %v", lerr)
			}
		}
		return middleware.Redirect(c, http.StatusUnauthorized, middleware.LoginPath)
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		body := echo.Map{"error": apiErr.Message}
		if len(apiErr.Fields) > 0 {
			body["fields"] = apiErr.Fields
		}
		return c.JSON(apiErr.Status, body)
	}
	c.Logger().Errorf("backend call failed: %v", err)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "backend unavailable"})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
