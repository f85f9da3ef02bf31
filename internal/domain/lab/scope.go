package lab

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const organisationKey = "organisation"

type organisationGetter interface {
	GetOrganisation(ctx context.Context, id uuid.UUID) (*Organisation, error)
}

// OrganisationScope resolves the :org path parameter into an Organisation
// for the rest of the chain. A malformed id is a 400, an unknown one a 404.
func OrganisationScope(orgs organisationGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := ParseID(c.Param("org"))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation id")
			}
			org, err := orgs.GetOrganisation(c.Request().Context(), id)
			if errors.Is(err, ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "organisation not found")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong").SetInternal(err)
			}
			c.Set(organisationKey, org)
			return next(c)
		}
	}
}

// OrganisationFromContext returns the organisation resolved by
// OrganisationScope, or nil.
func OrganisationFromContext(c echo.Context) *Organisation {
	org, _ := c.Get(organisationKey).(*Organisation)
	return org
}

// ParseID accepts only the canonical 36 character hyphenated form.
func ParseID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, errors.New("invalid id length")
	}
	return uuid.Parse(s)
}
