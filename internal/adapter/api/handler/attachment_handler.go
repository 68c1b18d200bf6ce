package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/middleware"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/usecase"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/response"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/utils"
)

type AttachmentHandler struct {
	attachments    *usecase.AttachmentUseCase
	chats          *usecase.ChatSessionUseCase
	maxUploadBytes int64
}

func NewAttachmentHandler(attachments *usecase.AttachmentUseCase, chats *usecase.ChatSessionUseCase, maxUploadBytes int64) *AttachmentHandler {
	return &AttachmentHandler{
		attachments:    attachments,
		chats:          chats,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload receives a multipart file and sends it as a chat message.
func (h *AttachmentHandler) Upload(c echo.Context) error {
	chatID := c.Param("id")
	actingID := middleware.ActingID(c)

	chat, err := h.chats.GetChat(c.Request().Context(), chatID)
	if err != nil {
		return response.Error(c, err)
	}
	if !chat.HasParticipant(actingID) {
		return response.Error(c, errors.Forbidden("You are not a participant of this chat", nil))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("A file is required", err))
	}
	if fileHeader.Size > h.maxUploadBytes {
		return response.Error(c, errors.BadRequest("File exceeds the upload size limit", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	message, err := h.attachments.SendFile(c.Request().Context(), chatID, actingID, fileHeader.Filename, contentType, file)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *AttachmentHandler) List(c echo.Context) error {
	chatID := c.Param("id")

	chat, err := h.chats.GetChat(c.Request().Context(), chatID)
	if err != nil {
		return response.Error(c, err)
	}
	if !chat.HasParticipant(middleware.ActingID(c)) {
		return response.Error(c, errors.Forbidden("You are not a participant of this chat", nil))
	}

	params := utils.GetPaginationParams(c)
	files, total, err := h.attachments.ListAttachments(c.Request().Context(), chatID, params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, files, total, params.Page, params.PageSize)
}
