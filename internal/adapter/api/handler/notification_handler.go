package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/usecase"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/response"
)

type NotificationHandler struct {
	notifications *usecase.NotificationUseCase
}

func NewNotificationHandler(notifications *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type PublishNotificationRequest struct {
	Tipo        string `json:"tipo" validate:"required,oneof=Chat Pedido"`
	Titulo      string `json:"titulo" validate:"required,max=200"`
	Descripcion string `json:"descripcion" validate:"max=1000"`
}

func (h *NotificationHandler) List(c echo.Context) error {
	list, err := h.notifications.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, list)
}

func (h *NotificationHandler) Publish(c echo.Context) error {
	var req PublishNotificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	notification := &entity.Notification{
		Tipo:        req.Tipo,
		Titulo:      req.Titulo,
		Descripcion: req.Descripcion,
	}
	if err := h.notifications.Publish(c.Request().Context(), notification); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, notification)
}
