package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/handler"
)

func SetupChatRoutes(g *echo.Group, chats *handler.ChatHandler, attachments *handler.AttachmentHandler) {
	g.POST("/chats", chats.CreateChat)
	g.GET("/chats", chats.ListChats)
	g.GET("/chats/:id", chats.GetChat)
	g.GET("/chats/:id/messages", chats.ListMessages)
	g.POST("/chats/:id/messages", chats.SendMessage)

	// Attachments are absent when no storage bucket is configured.
	if attachments != nil {
		g.POST("/chats/:id/attachments", attachments.Upload)
		g.GET("/chats/:id/attachments", attachments.List)
	}
}
