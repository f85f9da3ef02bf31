package search

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labtrack/labtrack/internal/domain/lab"
	"github.com/labtrack/labtrack/internal/platform/auth"
	"github.com/labtrack/labtrack/pkg/pagination"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the search on org, a group that resolves :org
// through lab.OrganisationScope.
func (h *Handler) RegisterRoutes(org *echo.Group) {
	org.GET("/sample", h.Search, auth.RequireRole(auth.RoleLabTech, auth.RoleClinician))
}

func (h *Handler) Search(c echo.Context) error {
	org := lab.OrganisationFromContext(c)
	query := c.QueryParams()

	doc, err := h.engine.Search(c.Request().Context(), org, RawFromValues(query))
	switch {
	case errors.Is(err, ErrInvalidScope):
		return echo.NewHTTPError(http.StatusNotFound, "organisation not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong").SetInternal(err)
	}

	window := pagination.Params{Offset: doc.Meta.Offset, Limit: doc.Meta.Limit}
	doc.Links = window.Links(c.Request().URL.Path, query, doc.Meta.Total)
	return c.JSON(http.StatusOK, doc)
}
