package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/firebase"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/response"
)

// DevTokenHandler mints custom tokens for local clients. Only routed
// in development mode.
type DevTokenHandler struct {
	auth *firebase.AuthClient
}

func NewDevTokenHandler(auth *firebase.AuthClient) *DevTokenHandler {
	return &DevTokenHandler{auth: auth}
}

type DevTokenRequest struct {
	UID string `json:"uid" validate:"required"`
}

func (h *DevTokenHandler) Generate(c echo.Context) error {
	var req DevTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.auth.GenerateToken(c.Request().Context(), req.UID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"token": token})
}
