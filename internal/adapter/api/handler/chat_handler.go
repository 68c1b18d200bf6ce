package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/middleware"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/usecase"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/response"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/utils"
)

type ChatHandler struct {
	chats     *usecase.ChatSessionUseCase
	directory *usecase.ChatDirectoryUseCase
}

func NewChatHandler(chats *usecase.ChatSessionUseCase, directory *usecase.ChatDirectoryUseCase) *ChatHandler {
	return &ChatHandler{
		chats:     chats,
		directory: directory,
	}
}

type CreateChatRequest struct {
	Name  string   `json:"name" validate:"max=120"`
	Users []string `json:"users" validate:"required,len=2,dive,required"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chats.CreateChat(c.Request().Context(), req.Name, [2]string{req.Users[0], req.Users[1]})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

// ListChats returns the acting identity's enriched chat directory.
func (h *ChatHandler) ListChats(c echo.Context) error {
	entries, err := h.directory.List(c.Request().Context(), middleware.ActingID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, entries)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	chat, err := h.loadParticipantChat(c)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	if _, err := h.loadParticipantChat(c); err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.chats.Messages(c.Request().Context(), c.Param("id"), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	if _, err := h.loadParticipantChat(c); err != nil {
		return response.Error(c, err)
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chats.SendMessage(c.Request().Context(), c.Param("id"), middleware.ActingID(c), req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	// Whitespace-only text writes nothing and returns nothing.
	return response.Created(c, message)
}

func (h *ChatHandler) loadParticipantChat(c echo.Context) (*entity.Chat, error) {
	chat, err := h.chats.GetChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(middleware.ActingID(c)) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}
	return chat, nil
}
