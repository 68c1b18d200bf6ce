package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/handler"
)

func SetupNotificationRoutes(g *echo.Group, notifications *handler.NotificationHandler) {
	g.GET("/notifications", notifications.List)
	g.POST("/notifications", notifications.Publish)
}
