package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/edubridge-web/internal/middleware"
	"github.com/edubridge/edubridge-web/internal/model"
	"github.com/edubridge/edubridge-web/internal/service"
)

// AuthHandler implements the credential forms.  The heavy lifting lives in
// the session (login/register/logout) and the auth service (password reset);
// both are reached through the request's resolved session, so the handler
// itself carries no state.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotReq struct {
	Email string `json:"email"`
}

// Login: validate the form locally, then let the session submit and persist.
// Validation failures never reach the backend.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	s := middleware.CurrentSession(c)
	user, err := s.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":     user,
		"redirect": middleware.DashboardPath(user.Role),
	})
}

// Register: same contract as Login with the additional profile fields.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	if !model.KnownRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be student or sponsor"})
	}
	if req.Role == model.RoleSponsor && strings.TrimSpace(req.Organization) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization required for sponsors"})
	}

	s := middleware.CurrentSession(c)
	user, err := s.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user":     user,
		"redirect": middleware.DashboardPath(user.Role),
	})
}

// Logout clears the session's credentials.  Idempotent: logging out twice
// is the same as once.
func (h *AuthHandler) Logout(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if err := s.Logout(c.Request().Context()); err != nil {
		c.Logger().Errorf("logout: clearing credentials failed: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports the current session state so pages can render the right
// chrome without a round trip through a guarded route.
func (h *AuthHandler) Session(c echo.Context) error {
	s := middleware.CurrentSession(c)
	user := s.User()
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": user != nil,
		"loading":       s.Loading(),
		"user":          user,
	})
}

// ForgotPassword asks the backend to mail a reset link.  The response is
// the same whether or not the address exists; enumeration is the backend's
// concern, not ours to undo.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	s := middleware.CurrentSession(c)
	if err := service.NewAuthService(s.API()).ForgotPassword(c.Request().Context(), strings.TrimSpace(req.Email)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"message": "reset link sent if the address exists"})
}

// ResetPassword completes a reset started from the mailed link.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req service.ResetInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and new_password required"})
	}
	if req.ConfirmPassword != req.NewPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}
	s := middleware.CurrentSession(c)
	if err := service.NewAuthService(s.API()).ResetPassword(c.Request().Context(), req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
