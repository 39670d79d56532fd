package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityapp "github.com/openbiz/backend/internal/application/identity"
	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/interfaces/http/middleware"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.LoginResult), args.Error(1)
}

func (m *mockAuthService) GetUser(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserResponse), args.Error(1)
}

func setupAuthRouter(svc AuthService, claims bool) *gin.Engine {
	h := NewAuthHandler(svc)
	var mw []gin.HandlerFunc
	if claims {
		mw = append(mw, withClaims(testClaims(), ""))
	}
	engine := newTestEngine(mw...)
	engine.POST("/api/v1/auth/login", h.Login)
	engine.GET("/api/v1/auth/me", h.Me)
	return engine
}

func TestAuthHandler_Login_Success(t *testing.T) {
	middleware.SetupValidator()
	svc := new(mockAuthService)
	engine := setupAuthRouter(svc, false)
	input := identityapp.LoginInput{TenantID: testTenantID, Login: "jdoe", Password: "Password123"}
	svc.On("Login", mock.Anything, input).Return(&identityapp.LoginResult{
		AccessToken: "signed.jwt.token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        identityapp.UserResponse{ID: testUserID, Login: "jdoe", Permissions: []string{"*"}},
	}, nil)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"tenant_id": testTenantID,
		"login":     "jdoe",
		"password":  "Password123",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"access_token":"signed.jwt.token"`)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	middleware.SetupValidator()
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"bad credentials", identityapp.ErrInvalidCredentials, http.StatusUnauthorized, "ERR_UNAUTHORIZED"},
		{"disabled", shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled"), http.StatusForbidden, "ERR_FORBIDDEN"},
		{"database", errors.New("connection reset"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAuthService)
			engine := setupAuthRouter(svc, false)
			svc.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", map[string]any{
				"tenant_id": testTenantID,
				"login":     "jdoe",
				"password":  "wrong-password",
			})

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
		})
	}
}

func TestAuthHandler_Login_ShortPassword(t *testing.T) {
	middleware.SetupValidator()
	svc := new(mockAuthService)
	engine := setupAuthRouter(svc, false)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"tenant_id": testTenantID,
		"login":     "jdoe",
		"password":  "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "password", env.Error.Details[0].Field)
	assert.Equal(t, "Must be at least 8 characters", env.Error.Details[0].Message)
}

func TestAuthHandler_Me(t *testing.T) {
	svc := new(mockAuthService)
	engine := setupAuthRouter(svc, true)
	svc.On("GetUser", mock.Anything, testTenantID, testUserID).
		Return(&identityapp.UserResponse{ID: testUserID, TenantID: testTenantID, Login: "jdoe"}, nil)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/auth/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"login":"jdoe"`)

	w = doJSON(t, setupAuthRouter(svc, false), http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type stubIcons struct {
	page []byte
	err  error
	got  identity.Actor
}

func (s *stubIcons) Render(_ context.Context, actor identity.Actor) ([]byte, error) {
	s.got = actor
	return s.page, s.err
}

func TestUIDocHandler_Icons(t *testing.T) {
	icons := &stubIcons{page: []byte("<html><h1>Icons</h1></html>")}
	h := NewUIDocHandler(icons)
	engine := newTestEngine(withClaims(testClaims(), "de-DE"))
	engine.GET("/api/v1/admin/uidoc/icons", h.Icons)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/admin/uidoc/icons", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<html><h1>Icons</h1></html>", w.Body.String())
	assert.Equal(t, "de-DE", icons.got.Language)
}

func TestUIDocHandler_Icons_External(t *testing.T) {
	icons := &stubIcons{err: shared.ErrForbidden}
	h := NewUIDocHandler(icons)
	claims := testClaims()
	claims.ThirdPartyID = uuid.NewString()
	engine := newTestEngine(withClaims(claims, ""))
	engine.GET("/api/v1/admin/uidoc/icons", h.Icons)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/admin/uidoc/icons", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, icons.got.IsExternal())
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	for _, tt := range []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"healthy", nil, http.StatusOK, `"status":"healthy"`},
		{"database down", errors.New("dial tcp: refused"), http.StatusServiceUnavailable, `"database":"error"`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("openbiz", "1.0.0", stubPinger{err: tt.err})
			engine := newTestEngine()
			engine.GET("/health", h.Health)

			w := doJSON(t, engine, http.MethodGet, "/health", nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestSystemHandler_Info(t *testing.T) {
	h := NewSystemHandler("openbiz", "1.4.2", stubPinger{})
	engine := newTestEngine()
	engine.GET("/api/v1/system/info", h.Info)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/system/info", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.4.2"`)
	assert.Contains(t, w.Body.String(), `"go_version":"go`)
}
