package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	"github.com/paras1506/CSR-Health-Group/internal/config"
	"github.com/paras1506/CSR-Health-Group/internal/handler"
	"github.com/paras1506/CSR-Health-Group/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	requestHandler *handler.RequestHandler,
	queryHandler *handler.QueryHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/requests", queryHandler.ListRequests)
	api.GET("/requests/search-villages", queryHandler.SearchVillages)
	api.GET("/requests/filter", queryHandler.FilterByDepartment)

	// Secured routes (require a valid bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/auth/me", authHandler.GetProfile)
	secured.POST("/auth/verify", authHandler.VerifyUser,
		RequireRoles(model.RoleVerifier, model.RoleAdmin))

	secured.POST("/requests", requestHandler.CreateRequest,
		RequireRoles(model.RoleAppealer))
	secured.POST("/requests/donor-interest", requestHandler.DonorInterest,
		RequireRoles(model.RoleDonor))
	secured.POST("/requests/update-fulfillment", requestHandler.UpdateFulfillment,
		RequireRoles(model.RoleHeadOfDepartment))
	// Department scoping for donor-details is decided by the department claim,
	// not the role, so the gate lives in the service.
	secured.GET("/requests/donor-details", requestHandler.InterestedDonors)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
