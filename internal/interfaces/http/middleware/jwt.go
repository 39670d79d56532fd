package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/infrastructure/auth"
	"github.com/openbiz/backend/internal/infrastructure/logger"
	"github.com/openbiz/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates access tokens
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// JWTConfig configures JWTAuth
type JWTConfig struct {
	Validator TokenValidator
	// SkipPaths are served without a token
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth rejects requests without a valid bearer token and stores the claims
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		for _, p := range cfg.SkipPaths {
			if c.Request.URL.Path == p {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			authFailed(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			authFailed(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Validator.Validate(token)
		if err != nil {
			authFailed(c, cfg, err, "Token validation failed")
			return
		}
		c.Set(JWTClaimsKey, claims)

		ctx := c.Request.Context()
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(
			zap.String("user_id", claims.UserID),
			zap.String("tenant_id", claims.TenantID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func authFailed(c *gin.Context, cfg JWTConfig, err error, message string) {
	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path))

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abort(c, dto.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid):
		abort(c, dto.ErrCodeTokenInvalid, "Invalid token")
	default:
		abort(c, dto.ErrCodeUnauthorized, "Authentication required")
	}
}

// GetJWTClaims returns the claims stored by JWTAuth
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetActor builds the caller identity from the token claims and the negotiated language
func GetActor(c *gin.Context) (identity.Actor, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return identity.Actor{}, false
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return identity.Actor{}, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return identity.Actor{}, false
	}
	actor := identity.Actor{
		TenantID:    tenantID,
		UserID:      userID,
		Language:    GetLanguage(c),
		Permissions: claims.Permissions,
	}
	if claims.ThirdPartyID != "" {
		id, err := uuid.Parse(claims.ThirdPartyID)
		if err != nil {
			return identity.Actor{}, false
		}
		actor.ThirdPartyID = &id
	}
	if actor.Language == "" {
		actor.Language = claims.Language
	}
	return actor, true
}
