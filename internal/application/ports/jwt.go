package ports

import (
	"time"

	"media-gallery-api/internal/infrastructure/jwt"
)

type TokenService interface {
	GenerateJWT(userID, username string, expiresIn time.Duration) (string, *jwt.Claims, error)
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}
