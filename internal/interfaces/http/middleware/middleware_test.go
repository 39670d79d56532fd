package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/infrastructure/auth"
	"github.com/openbiz/backend/internal/infrastructure/config"
	"github.com/openbiz/backend/internal/infrastructure/i18n"
	"github.com/openbiz/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func newToken(t *testing.T, svc *auth.JWTService, input auth.GenerateTokenInput) string {
	t.Helper()
	tok, err := svc.Generate(input)
	require.NoError(t, err)
	return tok.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func serve(r *gin.Engine, method, path, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWTService()
	tp := uuid.New()
	input := auth.GenerateTokenInput{
		TenantID:     uuid.New(),
		UserID:       uuid.New(),
		Login:        "admin",
		ThirdPartyID: &tp,
		Language:     "fr-FR",
		Permissions:  []string{identity.PermSupplierProposalRead},
	}

	r := gin.New()
	r.Use(RequestID(), JWTAuth(JWTConfig{Validator: svc, SkipPaths: []string{"/health"}}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		assert.Equal(t, input.TenantID, actor.TenantID)
		assert.Equal(t, input.UserID, actor.UserID)
		assert.True(t, actor.IsExternal())
		assert.Equal(t, "fr-FR", actor.Language)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/me", newToken(t, svc, input)).Code)

	rec := serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, decode(t, rec).Error.Code)
	assert.NotEmpty(t, decode(t, rec).Error.RequestID)

	rec = serve(r, http.MethodGet, "/me", "", "Authorization", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Issuer: "test-issuer", AccessTokenExpiration: time.Minute})
	rec = serve(r, http.MethodGet, "/me", newToken(t, other, input))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_Expired(t *testing.T) {
	svc := auth.NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "i", AccessTokenExpiration: -time.Minute})
	r := gin.New()
	r.Use(JWTAuth(JWTConfig{Validator: svc}))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodGet, "/me", newToken(t, svc, auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New()}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, decode(t, rec).Error.Code)
}

func TestRequirePermission_DenyExternal(t *testing.T) {
	svc := newTestJWTService()
	r := gin.New()
	r.Use(JWTAuth(JWTConfig{Validator: svc}))
	r.GET("/merge", RequirePermission(identity.PermDocumentMerge), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/doc", DenyExternal(), func(c *gin.Context) { c.Status(http.StatusOK) })

	internal := newToken(t, svc, auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New(), Permissions: []string{"document:*"}})
	tp := uuid.New()
	external := newToken(t, svc, auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New(), ThirdPartyID: &tp})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/merge", internal).Code)
	rec := serve(r, http.MethodGet, "/merge", external)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrCodeForbidden, decode(t, rec).Error.Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/doc", internal).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/doc", external).Code)
}

func TestRequirePermission_NoClaims(t *testing.T) {
	r := gin.New()
	r.GET("/merge", RequirePermission(identity.PermDocumentMerge), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/merge", "").Code)
}

func TestLanguage(t *testing.T) {
	tr, err := i18n.New("en-US")
	require.NoError(t, err)
	svc := newTestJWTService()

	r := gin.New()
	r.Use(JWTAuth(JWTConfig{Validator: svc, SkipPaths: []string{"/anon"}}), Language(tr))
	handler := func(c *gin.Context) { c.String(http.StatusOK, GetLanguage(c)) }
	r.GET("/anon", handler)
	r.GET("/me", handler)

	assert.Equal(t, "fr-FR", serve(r, http.MethodGet, "/anon", "", "Accept-Language", "fr-CH, fr;q=0.9, en;q=0.8").Body.String())
	assert.Equal(t, "en-US", serve(r, http.MethodGet, "/anon", "").Body.String())
	assert.Equal(t, "de-DE", serve(r, http.MethodGet, "/anon?lang=de_DE", "").Body.String())

	tok := newToken(t, svc, auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New(), Language: "de-DE"})
	rec := serve(r, http.MethodGet, "/me", tok, "Accept-Language", "fr-FR")
	assert.Equal(t, "de-DE", rec.Body.String())
	assert.Equal(t, "de-DE", rec.Header().Get("Content-Language"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := serve(r, http.MethodGet, "/", "", RequestIDHeader, "req-123")
	assert.Equal(t, "req-123", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = serve(r, http.MethodGet, "/", "", RequestIDHeader, strings.Repeat("x", MaxRequestIDLength+1))
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig([]string{"https://app.example.com"})))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodGet, "/", "", "Origin", "https://app.example.com")
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = serve(r, http.MethodGet, "/", "", "Origin", "https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(r, http.MethodOptions, "/", "", "Origin", "https://app.example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTracing_SpanEnricher(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	svc := newTestJWTService()

	r := gin.New()
	r.Use(RequestID(), Tracing("openbiz-test", otelgin.WithTracerProvider(tp)), JWTAuth(JWTConfig{Validator: svc}), SpanEnricher())
	r.GET("/api/v1/supplier-proposals/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	tenant := uuid.New()
	tok := newToken(t, svc, auth.GenerateTokenInput{TenantID: tenant, UserID: uuid.New()})
	serve(r, http.MethodGet, "/api/v1/supplier-proposals/"+uuid.NewString(), tok, RequestIDHeader, "req-9")

	ended := spans.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "GET /api/v1/supplier-proposals/:id", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := map[string]string{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "req-9", attrs["request_id"])
	assert.Equal(t, tenant.String(), attrs["tenant_id"])
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	serve(r, http.MethodGet, "/health", "")
	serve(r, http.MethodGet, "/health", "")
	serve(r, http.MethodGet, "/missing", "")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.requests" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value("http.route")
				counts[route.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), counts["/health"])
	assert.Equal(t, int64(1), counts["unmatched"])
}
