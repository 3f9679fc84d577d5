package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/genmesh/meshstore/internal/auth"
)

// RequireLogin rejects anonymous requests and exposes the session to the
// handler context.
func RequireLogin(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := svc.Current()
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			setUserContext(c, sess)
			return next(c)
		}
	}
}

// AdminOnly additionally requires the admin role.
func AdminOnly(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := svc.Current()
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if sess.Role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
			}
			setUserContext(c, sess)
			return next(c)
		}
	}
}

func setUserContext(c echo.Context, sess *auth.Session) {
	c.Set("userID", sess.ID)
	c.Set("userEmail", sess.Email)
	c.Set("role", sess.Role)
}
