package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"media-gallery-api/internal/application/services"
	"media-gallery-api/internal/infrastructure/jwt"
	"media-gallery-api/internal/interface/api/rest/dto/auth"
)

type fakeAuthGate struct {
	SignInFunc       func(ctx context.Context, username, password string) (string, error)
	SignOutFunc      func(token string) error
	AuthenticateFunc func(token string) (*jwt.Claims, error)
}

func (f *fakeAuthGate) SignIn(ctx context.Context, username, password string) (string, error) {
	if f.SignInFunc == nil {
		return "", errors.New("not used")
	}
	return f.SignInFunc(ctx, username, password)
}

func (f *fakeAuthGate) SignOut(token string) error {
	if f.SignOutFunc == nil {
		return nil
	}
	return f.SignOutFunc(token)
}

func (f *fakeAuthGate) Authenticate(token string) (*jwt.Claims, error) {
	if f.AuthenticateFunc == nil {
		return nil, services.ErrInvalidToken
	}
	return f.AuthenticateFunc(token)
}

func (f *fakeAuthGate) IsAuthenticated(token string) bool {
	_, err := f.Authenticate(token)
	return err == nil
}

// acceptToken authenticates exactly "good-token" as alice.
func acceptToken() *fakeAuthGate {
	return &fakeAuthGate{AuthenticateFunc: func(token string) (*jwt.Claims, error) {
		if token != "good-token" {
			return nil, services.ErrInvalidToken
		}
		return &jwt.Claims{UserID: "u-1", Username: "alice"}, nil
	}}
}

func newAuthRouter(t *testing.T, gate *fakeAuthGate) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewAuthController(r, zap.NewNop(), gate)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var b []byte
	switch v := body.(type) {
	case nil:
	case string:
		b = []byte(v)
	default:
		var err error
		b, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, path, bytes.NewReader(b))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestAuthController_SignInHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		signIn   func(ctx context.Context, username, password string) (string, error)
		wantCode int
		wantBody map[string]any
		wantKeys []string
	}{
		{
			name:     "invalid JSON",
			body:     "{bad json",
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{"error": "invalid json"},
		},
		{
			name:     "validation error",
			body:     auth.SignInRequest{Username: "", Password: ""},
			wantCode: http.StatusBadRequest,
			wantKeys: []string{"error", "details"},
		},
		{
			name: "wrong credentials -> 401",
			body: auth.SignInRequest{Username: "alice", Password: "nope"},
			signIn: func(context.Context, string, string) (string, error) {
				return "", services.ErrInvalidCredentials
			},
			wantCode: http.StatusUnauthorized,
			wantBody: map[string]any{"error": "invalid credentials"},
		},
		{
			name: "backend failure -> 500",
			body: auth.SignInRequest{Username: "alice", Password: "pw"},
			signIn: func(context.Context, string, string) (string, error) {
				return "", errors.New("db down")
			},
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]any{"error": "failed to sign in"},
		},
		{
			name: "success",
			body: auth.SignInRequest{Username: "alice", Password: "pw"},
			signIn: func(_ context.Context, username, password string) (string, error) {
				if username == "alice" && password == "pw" {
					return "tok_123", nil
				}
				return "", services.ErrInvalidCredentials
			},
			wantCode: http.StatusOK,
			wantBody: map[string]any{"access_token": "tok_123", "token_type": "Bearer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(t, &fakeAuthGate{SignInFunc: tt.signIn})

			rr := doJSON(t, r, http.MethodPost, RouteSignIn, tt.body, nil)
			require.Equal(t, tt.wantCode, rr.Code)

			resp := decode(t, rr)
			if tt.wantBody != nil {
				assert.Equal(t, tt.wantBody, resp)
			}
			for _, k := range tt.wantKeys {
				assert.Contains(t, resp, k)
			}
		})
	}
}

func TestAuthController_SignOutHandler(t *testing.T) {
	gate := acceptToken()
	var revoked string
	gate.SignOutFunc = func(token string) error {
		revoked = token
		return nil
	}
	r := newAuthRouter(t, gate)

	rr := doJSON(t, r, http.MethodPost, RouteSignOut, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, r, http.MethodPost, RouteSignOut, nil, map[string]string{"Authorization": "Bearer good-token"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "good-token", revoked)
}

func TestAuthController_SessionHandler(t *testing.T) {
	r := newAuthRouter(t, acceptToken())

	tests := []struct {
		name    string
		headers map[string]string
		want    map[string]any
	}{
		{"no token", nil, map[string]any{"authenticated": false}},
		{"bad token", map[string]string{"Authorization": "Bearer stale"}, map[string]any{"authenticated": false}},
		{"good token", map[string]string{"Authorization": "Bearer good-token"}, map[string]any{"authenticated": true, "username": "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, r, http.MethodGet, RouteSession, nil, tt.headers)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, decode(t, rr))
		})
	}
}
