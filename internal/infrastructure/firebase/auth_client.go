package firebase

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(ctx context.Context, app *firebase.App) (*AuthClient, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to initialize auth client", err)
	}
	return &AuthClient{client: client}, nil
}

// VerifyToken validates a Firebase ID token and returns its uid.
func (a *AuthClient) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	return token.UID, nil
}

// GenerateToken mints a custom token for uid. Only wired up in
// development mode.
func (a *AuthClient) GenerateToken(ctx context.Context, uid string) (string, error) {
	token, err := a.client.CustomToken(ctx, uid)
	if err != nil {
		return "", errors.Internal("Failed to generate token", err)
	}
	return token, nil
}
