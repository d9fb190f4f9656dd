package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/model"
)

// RequireRoles guards a route behind a set of allowed roles. It fails closed:
// missing claims or a role outside the set yield 403.
func RequireRoles(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := auth.ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			for _, role := range allowed {
				if claims.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrForbidden.Error(),
			})
		}
	}
}
