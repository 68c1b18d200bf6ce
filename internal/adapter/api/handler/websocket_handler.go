package handler

import (
	"context"
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/middleware"
	ws "github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/websocket"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/usecase"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

type WebSocketHandler struct {
	manager       *ws.Manager
	directory     *usecase.ChatDirectoryUseCase
	chats         *usecase.ChatSessionUseCase
	notifications *usecase.NotificationUseCase
	upgrader      gorilla.Upgrader
}

func NewWebSocketHandler(manager *ws.Manager, directory *usecase.ChatDirectoryUseCase, chats *usecase.ChatSessionUseCase, notifications *usecase.NotificationUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		manager:       manager,
		directory:     directory,
		chats:         chats,
		notifications: notifications,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request and runs the connection until it drops.
func (h *WebSocketHandler) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed: %v", err)
		return err
	}

	client := &ws.Client{
		UserID:   middleware.UID(c),
		ActingID: middleware.ActingID(c),
		Conn:     conn,
		Send:     make(chan []byte, 256),
	}

	// The request context dies when this handler returns; the session
	// must outlive it.
	ws.NewSession(context.Background(), client, h.directory, h.chats, h.notifications)
	h.manager.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
