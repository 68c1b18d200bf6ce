package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/handler"
)

func SetupWebSocketRoutes(e *echo.Echo, ws *handler.WebSocketHandler, auth echo.MiddlewareFunc) {
	e.GET("/ws", ws.Handle, auth)
}
