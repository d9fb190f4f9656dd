package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/service"
)

// RequestHandler handles the mutating request-ledger endpoints.
type RequestHandler struct {
	requestService service.RequestService
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequestRequest represents a new solar request submission.
type CreateRequestRequest struct {
	OrganisationName string          `json:"organisationName" validate:"required"`
	InstitutionType  string          `json:"institutionType" validate:"required"`
	VillageName      string          `json:"villageName" validate:"required"`
	Taluka           string          `json:"taluka" validate:"required"`
	District         string          `json:"district" validate:"required"`
	SolarDemand      decimal.Decimal `json:"solarDemand" validate:"required"`
	Capacity         decimal.Decimal `json:"capacity"`
	DepartmentID     string          `json:"departmentId" validate:"required"`
}

// DonorInterestRequest identifies the request a donor pledges to.
type DonorInterestRequest struct {
	RequestID  string `json:"requestId" validate:"required"`
	DonatedFor string `json:"donatedForOrganization"`
}

// UpdateFulfillmentRequest carries the operator-entered percentage. The
// pointer distinguishes an absent value from an explicit zero.
type UpdateFulfillmentRequest struct {
	RequestID             string   `json:"requestId" validate:"required"`
	FulfillmentPercentage *float64 `json:"fulfillmentPercentage" validate:"required"`
}

// CreateRequest godoc
// @Summary Create a solar aid request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequestRequest true "Request data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) CreateRequest(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req CreateRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return writeError(c, apperrors.NewValidation("departmentId"))
	}

	request, err := h.requestService.Create(c.Request().Context(), claims, service.CreateRequestInput{
		OrganisationName: req.OrganisationName,
		InstitutionType:  req.InstitutionType,
		VillageName:      req.VillageName,
		Taluka:           req.Taluka,
		District:         req.District,
		SolarDemand:      req.SolarDemand,
		Capacity:         req.Capacity,
		DepartmentID:     departmentID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Request created successfully",
		"request": request,
	})
}

// DonorInterest godoc
// @Summary Record the caller's interest in a request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DonorInterestRequest true "Target request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /requests/donor-interest [post]
func (h *RequestHandler) DonorInterest(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req DonorInterestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return writeError(c, apperrors.NewValidation("requestId"))
	}

	if err := h.requestService.DonorInterest(c.Request().Context(), claims, requestID, req.DonatedFor); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Interest recorded successfully."})
}

// UpdateFulfillment godoc
// @Summary Overwrite a request's fulfillment percentage
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateFulfillmentRequest true "Fulfillment data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /requests/update-fulfillment [post]
func (h *RequestHandler) UpdateFulfillment(c echo.Context) error {
	var req UpdateFulfillmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return writeError(c, apperrors.NewValidation("requestId"))
	}

	if err := h.requestService.UpdateFulfillment(c.Request().Context(), requestID, *req.FulfillmentPercentage); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Fulfillment updated successfully."})
}

// InterestedDonors godoc
// @Summary List donors for the caller's department
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.DepartmentDonorReport
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /requests/donor-details [get]
func (h *RequestHandler) InterestedDonors(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	reports, err := h.requestService.InterestedDonors(c.Request().Context(), claims)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reports)
}
