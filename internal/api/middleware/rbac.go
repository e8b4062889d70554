package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sirpyerre/user-management/internal/api/metrics"
	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/service"
)

const (
	msgUnauthorized = "Error: Unauthorized"
	msgForbidden    = "Error: Access denied"
)

// RequireRole admits requests whose identity holds at least one of roles.
func RequireRole(roles ...domain.RoleName) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := service.RequireAnyRole(c.Request().Context(), roles...)
			if err := decide("role", err); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireSelfOrRole admits requests whose identity holds role or whose user
// id equals the path parameter param.
func RequireSelfOrRole(role domain.RoleName, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := service.RequireSelfOrRole(c.Request().Context(), role, c.Param(param))
			if err := decide("self_or_role", err); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func decide(rule string, err error) error {
	switch {
	case err == nil:
		metrics.AuthorizationDecisionsTotal.WithLabelValues(rule, "allow").Inc()
		return nil
	case errors.Is(err, domain.ErrUnauthenticated):
		metrics.AuthorizationDecisionsTotal.WithLabelValues(rule, "unauthenticated").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
	default:
		metrics.AuthorizationDecisionsTotal.WithLabelValues(rule, "forbidden").Inc()
		return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
	}
}
