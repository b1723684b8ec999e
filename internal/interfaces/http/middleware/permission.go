package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequirePermission admits sessions granted permission directly or through
// a resource or global wildcard
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission admits sessions granted at least one of permissions.
// A request without a session gets 401, one without the grant 403.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetSessionClaims(c)
		switch {
		case claims == nil:
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "authentication required")
		case !claims.HasAnyPermission(permissions...):
			logger.FromContext(c.Request.Context()).Info("Permission denied",
				zap.Strings("required_any", permissions),
				zap.String("route", c.FullPath()),
			)
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "permission denied")
		default:
			c.Next()
		}
	}
}
