package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

type fakeVerifier struct {
	uid string
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, idToken string) (string, error) {
	if idToken != "valid" {
		return "", errors.Unauthorized("Invalid or expired token", nil)
	}
	return f.uid, nil
}

func run(t *testing.T, header http.Header, target string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	mw := Auth(&fakeVerifier{uid: "u1"})
	handler := mw(func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	if captured == nil {
		captured = c
	}
	return rec, captured
}

func TestAuthRejectsMissingToken(t *testing.T) {
	rec, _ := run(t, http.Header{}, "/v1/chats")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	header := http.Header{"Authorization": []string{"Bearer nope"}}
	rec, _ := run(t, header, "/v1/chats")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthActsAsUserByDefault(t *testing.T) {
	header := http.Header{"Authorization": []string{"Bearer valid"}}
	rec, c := run(t, header, "/v1/chats")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", UID(c))
	assert.Equal(t, "u1", ActingID(c))
}

func TestAuthActsAsOrganizationWhenHeaderSet(t *testing.T) {
	header := http.Header{
		"Authorization":     []string{"Bearer valid"},
		"X-Organization-Id": []string{"org1"},
	}
	rec, c := run(t, header, "/v1/chats")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", UID(c))
	assert.Equal(t, "org1", ActingID(c))
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	rec, c := run(t, http.Header{}, "/ws?token=valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", UID(c))
}
