package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/handler"
)

// Dev routes are unauthenticated by design: they exist so a local
// client can obtain a token in the first place.
func SetupDevRoutes(g *echo.Group, devToken *handler.DevTokenHandler) {
	g.POST("/dev/token", devToken.Generate)
}
