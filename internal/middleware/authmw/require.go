package authmw

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierlocal/backend/internal/auth"
)

// CurrentPrincipal returns the bound principal or a 401 when the route is
// reached without one.
func CurrentPrincipal(c echo.Context) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}

// Require enforces an authorization requirement at the route level. Missing
// principal yields 401, an unsatisfied requirement 403.
func Require(requirement auth.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := CurrentPrincipal(c)
			if err != nil {
				return err
			}
			if err := auth.Check(p, requirement); err != nil {
				return Deny(err)
			}
			return next(c)
		}
	}
}

// Deny translates an authorization error to its HTTP equivalent.
func Deny(err error) error {
	if errors.Is(err, auth.ErrAccessDenied) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
}
