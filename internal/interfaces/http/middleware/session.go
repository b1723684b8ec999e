package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	SessionUserIDKey = "session_user_id"
	SessionTokenKey  = "session_token"

	DefaultSessionCookie = "tms_session"
	AuthHeaderKey        = "Authorization"
	BearerPrefix         = "Bearer "
)

// SessionValidator checks a session token's signature, expiry and revocation
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*auth.Claims, error)
}

// SessionMiddlewareConfig holds configuration for session middleware
type SessionMiddlewareConfig struct {
	Validator  SessionValidator
	CookieName string
	// SkipPaths are exact paths served without a session
	SkipPaths []string
	Logger    *zap.Logger
}

// SessionMiddleware authenticates the request with the session cookie or a
// Bearer token. A missing, invalid, expired or revoked token gets 401; a token
// issued for another tenant than the resolved one gets 403.
func SessionMiddleware(cfg SessionMiddlewareConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		token := SessionToken(c, cfg.CookieName)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "authentication required")
			return
		}

		claims, err := cfg.Validator.ValidateSession(c.Request.Context(), token)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				log.Debug("Session rejected", zap.String("code", de.Code), zap.String("path", path))
				abortWithError(c, http.StatusUnauthorized, de.Code, de.Message)
				return
			}
			log.Error("Session validation failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "authentication required")
			return
		}
		if tenantID := GetTenantID(c); tenantID != uuid.Nil && claims.TenantID != tenantID.String() {
			log.Warn("Session used on another tenant",
				zap.String("token_tenant", claims.TenantID),
				zap.String("tenant_id", tenantID.String()),
				zap.String("user_id", claims.UserID),
			)
			abortWithError(c, http.StatusForbidden, dto.ErrCodeTenantMismatch, "session does not belong to this tenant")
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(SessionUserIDKey, userID)
		c.Set(SessionTokenKey, token)

		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// SessionToken extracts the session token from the cookie, falling back to
// the Authorization header
func SessionToken(c *gin.Context, cookieName string) string {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader(AuthHeaderKey); strings.HasPrefix(h, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, BearerPrefix))
	}
	return ""
}

// GetSessionClaims returns the claims of the authenticated session
func GetSessionClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(SessionClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user ID, or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(SessionUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
