package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/response"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (string, error)
}

// Auth validates the bearer token and records both identities on the
// request: "uid" is the authenticated user, "actingId" is who the
// request acts as. A user representing a business sends its id in the
// X-Organization-Id header; otherwise they act as themselves.
// Websocket clients cannot set headers, so ?token= is accepted too.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return response.Error(c, errors.Unauthorized("Missing authentication token", nil))
			}

			uid, err := verifier.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return response.Error(c, err)
			}

			c.Set("uid", uid)

			actingID := c.Request().Header.Get("X-Organization-Id")
			if actingID == "" {
				actingID = uid
			}
			c.Set("actingId", actingID)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.QueryParam("token")
}

// ActingID returns the identity the request acts as.
func ActingID(c echo.Context) string {
	actingID, _ := c.Get("actingId").(string)
	return actingID
}

// UID returns the authenticated user id.
func UID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
