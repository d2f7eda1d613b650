package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/edubridge-web/internal/model"
	"github.com/edubridge/edubridge-web/internal/session"
)

// sessionKey is the echo context key the resolved session is stored under.
const sessionKey = "session"

// LoginPath is the login entry point unauthenticated and expired sessions
// are sent to.
const LoginPath = "/login"

// LoadSession resolves the browser-session cookie (minting one for new
// visitors), runs the one-time startup validation, and puts the session on
// the request context.  It must wrap every route so that no access decision
// is ever made against a still-loading session: by the time RequireAuth or
// RequireRole runs, validation has completed one way or the other.  secure
// marks the cookie HTTPS-only; pass true everywhere except plain-HTTP dev
// setups, since the cookie is the sole bearer of the session identity.
func LoadSession(m *session.Manager, cookieName string, ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var s *session.Session
			if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
				s = m.Get(ck.Value)
			} else {
				s = m.Create()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    s.ID(),
					Path:     "/",
					MaxAge:   int(ttl / time.Second),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			if err := s.Resume(c.Request().Context()); err != nil {
				// Credential store unreachable; the session stays Unknown and
				// the next request retries validation.
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session validation unavailable"})
			}
			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// CurrentSession returns the session resolved by LoadSession, or nil on
// routes that were not wrapped by it.
func CurrentSession(c echo.Context) *session.Session {
	s, _ := c.Get(sessionKey).(*session.Session)
	return s
}

// RequireAuth rejects requests whose session holds no user, sending the
// browser to the login entry point.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := CurrentSession(c)
			if s == nil || !s.IsAuthenticated() {
				return Redirect(c, http.StatusUnauthorized, LoginPath)
			}
			return next(c)
		}
	}
}

// RequireRole enforces that the authenticated user's role is in the allowed
// set for this route group.  A wrong-role user is not shown a 403; they are
// redirected to their own role's dashboard (or the login entry point when
// the role is unrecognized).  Assumes RequireAuth ran earlier in the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := CurrentSession(c)
			if s == nil {
				return Redirect(c, http.StatusUnauthorized, LoginPath)
			}
			user := s.User()
			if user == nil {
				return Redirect(c, http.StatusUnauthorized, LoginPath)
			}
			if !allowed[user.Role] {
				return Redirect(c, http.StatusForbidden, DashboardPath(user.Role))
			}
			return next(c)
		}
	}
}

// DashboardPath maps a role to its dashboard entry point.  Unrecognized
// roles land on the login page, which is the safe default.
func DashboardPath(role string) string {
	switch role {
	case model.RoleStudent:
		return "/student/dashboard"
	case model.RoleSponsor:
		return "/sponsor/dashboard"
	default:
		return LoginPath
	}
}

// Redirect sends browsers a 303 to the target and API callers a JSON body
// carrying the status and the target, so fetch()-driven pages can navigate
// themselves.
func Redirect(c echo.Context, status int, target string) error {
	if wantsJSON(c) {
		return c.JSON(status, echo.Map{"error": strings.ToLower(http.StatusText(status)), "redirect": target})
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "application/json")
}
