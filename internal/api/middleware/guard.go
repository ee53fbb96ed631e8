package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/changecomm/admin-system/internal/core/domain"
)

// AdminOnly gates the admin path groups on the platform-management
// capability of the authenticated role. The check is a pure predicate over
// the claims set by Auth; an unknown or typo'd role never passes.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleStr, _ := c.Get("role").(string)
			role := domain.Role(roleStr)
			if !role.Valid() || !role.CanManagePlatform() {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
