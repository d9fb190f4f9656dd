package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/service"
)

// QueryHandler handles the public read endpoints.
type QueryHandler struct {
	queryService service.QueryService
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(queryService service.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// ListRequests godoc
// @Summary List solar requests with filters, pagination and facets
// @Tags requests
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 15)"
// @Param taluka query string false "Exact taluka filter"
// @Param institutionType query string false "Exact institution type filter"
// @Param villageName query string false "Village substring filter"
// @Success 200 {object} service.RequestPage
// @Failure 500 {object} errors.ErrorResponse
// @Router /requests [get]
func (h *QueryHandler) ListRequests(c echo.Context) error {
	// Non-numeric page/limit silently fall back to defaults.
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.queryService.ListRequests(c.Request().Context(), service.ListParams{
		Taluka:          c.QueryParam("taluka"),
		InstitutionType: c.QueryParam("institutionType"),
		Village:         c.QueryParam("villageName"),
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// SearchVillages godoc
// @Summary Search village names by substring
// @Tags requests
// @Produce json
// @Param query query string true "Village name fragment"
// @Success 200 {array} string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /requests/search-villages [get]
func (h *QueryHandler) SearchVillages(c echo.Context) error {
	villages, err := h.queryService.SearchVillages(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, villages)
}

// FilterByDepartment godoc
// @Summary List requests assigned to a department
// @Tags requests
// @Produce json
// @Param departmentId query string true "Department ID"
// @Success 200 {array} model.SolarRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /requests/filter [get]
func (h *QueryHandler) FilterByDepartment(c echo.Context) error {
	raw := c.QueryParam("departmentId")
	if raw == "" {
		return writeError(c, apperrors.NewValidation("departmentId"))
	}
	departmentID, err := uuid.Parse(raw)
	if err != nil {
		return writeError(c, apperrors.NewValidation("departmentId"))
	}

	requests, err := h.queryService.FilterByDepartment(c.Request().Context(), departmentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}
