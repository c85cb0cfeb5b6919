package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole passes when the authenticated role matches at least one of the
// given roles, e.g. RequireRole("super_admin") or RequireRole("admin", "super_admin").
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[strings.ToLower(role)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}

// Context accessors for the claims attached by RequireAuth.

func CurrentUserID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}

func CurrentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

func CurrentName(c echo.Context) string {
	name, _ := c.Get("name").(string)
	return name
}

// CurrentSchoolID is nil for super admins and students without a school.
func CurrentSchoolID(c echo.Context) *uint {
	id, _ := c.Get("school_id").(*uint)
	return id
}
