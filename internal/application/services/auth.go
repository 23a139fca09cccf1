package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/domain/user"
	"media-gallery-api/internal/infrastructure/jwt"
)

const revokedTokensSize = 10_000

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenRevoked          = errors.New("token revoked")
)

type AuthService struct {
	users    user.Repository
	tokens   ports.TokenService
	tokenTTL time.Duration
	revoked  *expirable.LRU[string, struct{}]
	logger   *zap.Logger
	mCounter *prometheus.CounterVec
}

// NewAuthService keeps revoked token ids for tokenTTL, the longest any of
// them can still be valid.
func NewAuthService(
	users user.Repository,
	tokens ports.TokenService,
	tokenTTL time.Duration,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		revoked:  expirable.NewLRU[string, struct{}](revokedTokensSize, nil, tokenTTL),
		logger:   logger,
		mCounter: mCounter,
	}
}

func (as *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	u, err := as.users.FetchByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			as.count("auth_sign_in_failed_total")
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		as.count("auth_sign_in_failed_total")
		return "", ErrInvalidCredentials
	}

	token, _, err := as.tokens.GenerateJWT(u.UUID.String(), u.Username, as.tokenTTL)
	if err != nil {
		as.logger.Error("GenerateJWT() error", zap.Error(err), zap.Stringer("user_uuid", u.UUID))
		return "", ErrFailedToGenerateToken
	}

	as.count("auth_sign_in_total")

	return token, nil
}

func (as *AuthService) SignOut(token string) error {
	claims, err := as.Authenticate(token)
	if err != nil {
		return err
	}

	as.revoked.Add(claims.ID, struct{}{})
	as.count("auth_sign_out_total")

	return nil
}

func (as *AuthService) Authenticate(token string) (*jwt.Claims, error) {
	claims, err := as.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ID != "" && as.revoked.Contains(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (as *AuthService) IsAuthenticated(token string) bool {
	_, err := as.Authenticate(token)
	return err == nil
}

func (as *AuthService) count(result string) {
	if as.mCounter != nil {
		as.mCounter.WithLabelValues(result).Inc()
	}
}
