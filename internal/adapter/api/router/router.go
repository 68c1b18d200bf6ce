package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/handler"
)

type Dependencies struct {
	Chats         *handler.ChatHandler
	Attachments   *handler.AttachmentHandler
	Notifications *handler.NotificationHandler
	WebSocket     *handler.WebSocketHandler
	DevToken      *handler.DevTokenHandler

	Auth        echo.MiddlewareFunc
	Environment string
}

func Setup(e *echo.Echo, deps Dependencies) {
	SetupHealthRoutes(e)
	SetupWebSocketRoutes(e, deps.WebSocket, deps.Auth)

	v1 := e.Group("/v1", deps.Auth)
	SetupChatRoutes(v1, deps.Chats, deps.Attachments)
	SetupNotificationRoutes(v1, deps.Notifications)

	if deps.Environment == "development" && deps.DevToken != nil {
		SetupDevRoutes(e.Group("/v1"), deps.DevToken)
	}
}
