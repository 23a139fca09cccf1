package ports

import (
	"context"

	"media-gallery-api/internal/infrastructure/jwt"
)

type AuthGate interface {
	SignIn(ctx context.Context, username, password string) (string, error)
	SignOut(token string) error
	IsAuthenticated(token string) bool
	// Authenticate is IsAuthenticated that also returns the session claims.
	Authenticate(token string) (*jwt.Claims, error)
}
