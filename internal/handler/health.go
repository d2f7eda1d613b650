package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports process liveness for load balancers and monitoring.  It
// deliberately does not probe the remote backend: a backend outage is not a
// reason to pull this frontend out of rotation.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
