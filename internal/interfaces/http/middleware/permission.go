package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/infrastructure/logger"
	"github.com/openbiz/backend/internal/interfaces/http/dto"
)

// RequireAnyPermission lets the request through when the token grants at least one of permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abort(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, p := range permissions {
			if identity.HasPermission(claims.Permissions, p) {
				c.Next()
				return
			}
		}
		logger.FromContext(c.Request.Context()).Warn("Permission denied",
			zap.Strings("required_any", permissions),
			zap.String("path", c.Request.URL.Path))
		abort(c, dto.ErrCodeForbidden, "Permission denied")
	}
}

// RequirePermission is RequireAnyPermission with a single permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// DenyExternal rejects users linked to a third party
func DenyExternal() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abort(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.IsExternal() {
			abort(c, dto.ErrCodeForbidden, "Access forbidden to external users")
			return
		}
		c.Next()
	}
}
