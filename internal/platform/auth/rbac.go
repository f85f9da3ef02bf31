package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user has at least one of the specified roles.
// Admins always pass.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, has := range userRoles {
				if has == RoleAdmin {
					return next(c)
				}
				for _, required := range roles {
					if has == required {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

func IsAdmin(ctx context.Context) bool {
	for _, r := range RolesFromContext(ctx) {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// CanAccessOrganisation reports whether the caller may read or write data of
// the organisation with the given id.
func CanAccessOrganisation(ctx context.Context, orgID string) bool {
	if IsAdmin(ctx) {
		return true
	}
	for _, id := range OrganisationsFromContext(ctx) {
		if strings.EqualFold(id, orgID) {
			return true
		}
	}
	return false
}

// RequireOrganisation rejects requests whose :org path parameter names an
// organisation the caller is not a member of.
func RequireOrganisation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CanAccessOrganisation(c.Request().Context(), c.Param("org")) {
				return echo.NewHTTPError(http.StatusForbidden, "organisation not accessible")
			}
			return next(c)
		}
	}
}
