package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ClaimsFrom extracts the verified claims the JWT middleware stored on the
// request context. ok is false when the route was not behind the middleware
// or the claims are of an unexpected shape.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	return claims, ok
}
