package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
)

// writeError funnels every service error through the shared kind-to-status
// mapping so status codes stay consistent across endpoints.
func writeError(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	return c.JSON(he.StatusCode, he.ToErrorResponse())
}
