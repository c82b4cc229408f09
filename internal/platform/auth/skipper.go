package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths bypass authentication and hospital resolution.
var publicPaths = map[string]bool{
	"/health":              true,
	"/health/db":           true,
	"/api/v1/capabilities": true,
}

// AuthSkipper reports whether the matched route is public. Set it as
// JWTConfig.Skipper.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

func IsPublicPath(path string) bool {
	return publicPaths[path]
}
