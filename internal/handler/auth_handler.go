package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	FirstName    string  `json:"fname" validate:"required"`
	LastName     string  `json:"lname" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Phone        string  `json:"phone"`
	GovernmentID *string `json:"governmentId"`
	Role         string  `json:"role" validate:"required"`
	DepartmentID *string `json:"departmentId"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyRequest identifies the account to verify.
type VerifyRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// LoginResponse carries the issued token and the account.
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Signup godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return writeError(c, apperrors.NewValidation("role"))
	}

	var departmentID *uuid.UUID
	if req.DepartmentID != nil {
		id, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return writeError(c, apperrors.NewValidation("departmentId"))
		}
		departmentID = &id
	}

	user, pending, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		GovernmentID: req.GovernmentID,
		Role:         role,
		DepartmentID: departmentID,
	})
	if err != nil {
		return writeError(c, err)
	}

	message := "Signup successful."
	if pending {
		message = "Signup successful. Awaiting verification"
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": message,
		"user":    user,
	})
}

// Login godoc
// @Summary Login and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// VerifyUser godoc
// @Summary Mark an account as verified
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyRequest true "Target account"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/verify [post]
func (h *AuthHandler) VerifyUser(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		return writeError(c, apperrors.NewValidation("userId"))
	}

	user, err := h.authService.VerifyUser(c.Request().Context(), targetID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User verified successfully",
		"user":    user,
	})
}

// GetProfile godoc
// @Summary Fetch the caller's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	user, err := h.authService.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
