package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/application/services"
	"media-gallery-api/internal/interface/api/rest/dto/auth"
	"media-gallery-api/internal/interface/api/rest/middleware"
	"media-gallery-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger *zap.Logger
	gate   ports.AuthGate
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	gate ports.AuthGate,
) *AuthController {
	ac := &AuthController{
		logger: logger,
		gate:   gate,
	}

	r.POST(RouteSignIn, ac.SignInHandler)
	r.POST(RouteSignOut, middleware.AuthMiddleware(gate), ac.SignOutHandler)
	r.GET(RouteSession, ac.SessionHandler)

	return ac
}

func (ac *AuthController) SignInHandler(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateSignIn(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	token, err := ac.gate.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ac.logger.Error("SignIn() error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func (ac *AuthController) SignOutHandler(c *gin.Context) {
	if err := ac.gate.SignOut(c.GetString(middleware.CtxToken)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// SessionHandler never fails: a missing or rejected token is reported as
// an unauthenticated session.
func (ac *AuthController) SessionHandler(c *gin.Context) {
	token, err := middleware.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusOK, auth.SessionResponse{})
		return
	}

	claims, err := ac.gate.Authenticate(token)
	if err != nil {
		c.JSON(http.StatusOK, auth.SessionResponse{})
		return
	}

	c.JSON(http.StatusOK, auth.SessionResponse{Authenticated: true, Username: claims.Username})
}
