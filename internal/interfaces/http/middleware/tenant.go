package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Tenant context keys and headers
const (
	TenantIDKey           = "tenant_id"
	TenantKey             = "tenant"
	TenantSubdomainHeader = "X-Tenant-Subdomain"
	TenantIDHeader        = "X-Tenant-ID"
)

// TenantResolver looks tenants up by subdomain or ID
type TenantResolver interface {
	ResolveBySubdomain(ctx context.Context, subdomain string) (*identity.Tenant, error)
	ResolveByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	Resolver TenantResolver
	// BaseDomain enables Host based resolution: acme.<BaseDomain> resolves "acme"
	BaseDomain string
	// AllowIDHeader accepts X-Tenant-ID; only meant for development
	AllowIDHeader bool
	// SkipPaths are exact paths served without a tenant
	SkipPaths []string
	Logger    *zap.Logger
}

// TenantMiddleware resolves the tenant of the request, in order: the
// X-Tenant-Subdomain header, the Host subdomain under BaseDomain, and the
// X-Tenant-ID header when allowed. Unknown tenants get 404 and suspended
// tenants 403.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
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

		tenant, method, err := resolveTenant(c, cfg)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				abortWithError(c, http.StatusNotFound, dto.ErrCodeTenantNotFound, "tenant not found")
				return
			}
			log.Error("Tenant resolution failed", zap.Error(err), zap.String("path", path))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
			return
		}
		if tenant.Status == identity.TenantStatusSuspended {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeTenantInactive, "tenant is suspended")
			return
		}

		c.Set(TenantKey, tenant)
		c.Set(TenantIDKey, tenant.ID)

		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenant.ID.String()))

		log.Debug("Tenant resolved",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("subdomain", tenant.Subdomain),
			zap.String("method", method),
		)
		c.Next()
	}
}

func resolveTenant(c *gin.Context, cfg TenantMiddlewareConfig) (*identity.Tenant, string, error) {
	ctx := c.Request.Context()

	if sub := strings.TrimSpace(c.GetHeader(TenantSubdomainHeader)); sub != "" {
		t, err := cfg.Resolver.ResolveBySubdomain(ctx, sub)
		return t, "header", err
	}

	if cfg.BaseDomain != "" {
		if sub := subdomainFromHost(c.Request.Host, cfg.BaseDomain); sub != "" {
			t, err := cfg.Resolver.ResolveBySubdomain(ctx, sub)
			return t, "host", err
		}
	}

	if cfg.AllowIDHeader {
		if raw := c.GetHeader(TenantIDHeader); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, "id", shared.NotFound("Tenant")
			}
			t, err := cfg.Resolver.ResolveByID(ctx, id)
			return t, "id", err
		}
	}

	return nil, "", shared.NotFound("Tenant")
}

// subdomainFromHost returns the leftmost label of host when host is a
// subdomain of baseDomain: "acme.tms.io:8080" with "tms.io" returns "acme".
func subdomainFromHost(host, baseDomain string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	suffix := "." + strings.ToLower(strings.TrimPrefix(baseDomain, "."))
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(host, suffix)
	if sub == "" {
		return ""
	}
	if i := strings.IndexByte(sub, '.'); i >= 0 {
		sub = sub[:i]
	}
	return sub
}

// GetTenant returns the tenant resolved for the request
func GetTenant(c *gin.Context) *identity.Tenant {
	if v, ok := c.Get(TenantKey); ok {
		if t, ok := v.(*identity.Tenant); ok {
			return t
		}
	}
	return nil
}

// GetTenantID returns the resolved tenant ID, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
