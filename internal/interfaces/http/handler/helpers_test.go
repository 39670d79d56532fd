package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/infrastructure/auth"
	"github.com/openbiz/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testTenantID = uuid.MustParse("6c1d7ab4-1f3e-4b7a-9a39-0d3c0d0e9f01")
	testUserID   = uuid.MustParse("a4f7e2c9-85b1-4d8e-b2a0-3f6d9c1e7b52")
)

func testActor() identity.Actor {
	return identity.Actor{
		TenantID:    testTenantID,
		UserID:      testUserID,
		Language:    "fr-FR",
		Permissions: []string{"*"},
	}
}

// withClaims stands in for JWTAuth and Language
func withClaims(claims *auth.Claims, lang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
		}
		if lang != "" {
			c.Set(middleware.LanguageKey, lang)
		}
		c.Next()
	}
}

func testClaims() *auth.Claims {
	return &auth.Claims{
		TenantID:    testTenantID.String(),
		UserID:      testUserID.String(),
		Login:       "jdoe",
		Permissions: []string{"*"},
	}
}

func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(mw...)
	return engine
}

func doJSON(t *testing.T, engine http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
