package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"media-gallery-api/internal/application/ports"
)

const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxToken    = "token"
)

var (
	errMissingHeader = errors.New("missing Authorization header")
	errTokenFormat   = errors.New("invalid token format")
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", errTokenFormat
	}
	return token, nil
}

func AuthMiddleware(gate ports.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": err.Error()},
			)
			return
		}

		claims, err := gate.Authenticate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": err.Error()},
			)
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxToken, tokenStr)

		c.Next()
	}
}
