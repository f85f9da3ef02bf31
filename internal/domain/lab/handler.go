package lab

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labtrack/labtrack/internal/platform/auth"
	"github.com/labtrack/labtrack/internal/platform/jsonapi"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the organisation listing on api and the
// organisation-scoped routes on org, which must already resolve :org
// through OrganisationScope.
func (h *Handler) RegisterRoutes(api *echo.Group, org *echo.Group) {
	read := auth.RequireRole(auth.RoleLabTech, auth.RoleClinician)
	write := auth.RequireRole(auth.RoleLabTech)

	api.GET("/org", h.ListOrganisations, read)
	api.POST("/org", h.CreateOrganisation, auth.RequireRole(auth.RoleAdmin))

	org.GET("", h.GetOrganisation, read)
	org.POST("/profile", h.CreateProfile, write)
	org.GET("/profile/:profileId", h.GetProfile, read)
	org.POST("/profile/:profileId/sample", h.AddResult, write)
	org.GET("/profile/:profileId/sample/:sampleId", h.GetResult, read)
}

func httpError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong").SetInternal(err)
	}
}

func (h *Handler) ListOrganisations(c echo.Context) error {
	ctx := c.Request().Context()
	orgs, err := h.svc.ListOrganisations(ctx)
	if err != nil {
		return httpError(err, "")
	}
	resources := make([]jsonapi.Resource, 0, len(orgs))
	for _, o := range orgs {
		if auth.CanAccessOrganisation(ctx, o.ID.String()) {
			resources = append(resources, o.ToResource())
		}
	}
	return c.JSON(http.StatusOK, jsonapi.Collection(resources, nil))
}

type organisationBody = jsonapi.Request[OrganisationAttributes]

func (h *Handler) CreateOrganisation(c echo.Context) error {
	var body organisationBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Data.Type != TypeOrganisation {
		return echo.NewHTTPError(http.StatusBadRequest, "data.type must be organisation")
	}
	o := &Organisation{Name: body.Data.Attributes.Name}
	if err := h.svc.CreateOrganisation(c.Request().Context(), o); err != nil {
		return httpError(err, "")
	}
	return c.JSON(http.StatusCreated, jsonapi.Single(o.ToResource()))
}

func (h *Handler) GetOrganisation(c echo.Context) error {
	return c.JSON(http.StatusOK, jsonapi.Single(OrganisationFromContext(c).ToResource()))
}

type profileBody = jsonapi.Request[ProfileAttributes]

func (h *Handler) CreateProfile(c echo.Context) error {
	org := OrganisationFromContext(c)
	var body profileBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Data.Type != TypeProfile {
		return echo.NewHTTPError(http.StatusBadRequest, "data.type must be profile")
	}
	p := &Profile{Name: body.Data.Attributes.Name, OrganisationID: org.ID}
	if err := h.svc.CreateProfile(c.Request().Context(), p); err != nil {
		return httpError(err, "")
	}
	return c.JSON(http.StatusCreated, jsonapi.Single(p.ToResource()))
}

func (h *Handler) profileID(c echo.Context) (uuid.UUID, error) {
	id, err := ParseID(c.Param("profileId"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	return id, nil
}

func (h *Handler) GetProfile(c echo.Context) error {
	org := OrganisationFromContext(c)
	id, err := h.profileID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProfile(c.Request().Context(), org.ID, id)
	if err != nil {
		return httpError(err, "profile not found")
	}
	doc := jsonapi.Single(p.ToResource())
	doc.Included = []jsonapi.Resource{org.ToResource()}
	return c.JSON(http.StatusOK, doc)
}

type sampleBody = jsonapi.Request[struct {
	SampleID   string `json:"sampleId"`
	ResultType string `json:"resultType"`
}]

func (h *Handler) AddResult(c echo.Context) error {
	org := OrganisationFromContext(c)
	profileID, err := h.profileID(c)
	if err != nil {
		return err
	}
	var body sampleBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Data.Type != TypeSample {
		return echo.NewHTTPError(http.StatusBadRequest, "data.type must be sample")
	}

	r := &Result{
		SampleID: body.Data.Attributes.SampleID,
		Type:     ResultType(body.Data.Attributes.ResultType),
	}
	if err := h.svc.AddResult(c.Request().Context(), org.ID, profileID, r); err != nil {
		return httpError(err, "profile not found")
	}
	return c.JSON(http.StatusCreated, jsonapi.Single(r.ToSampleResource()))
}

func (h *Handler) GetResult(c echo.Context) error {
	org := OrganisationFromContext(c)
	profileID, err := h.profileID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.GetResult(c.Request().Context(), org.ID, profileID, c.Param("sampleId"))
	if err != nil {
		return httpError(err, "result not found")
	}
	return c.JSON(http.StatusOK, jsonapi.Single(r.ToSampleResource()))
}
