package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/interfaces/http/dto"
)

func tenantRouter(cfg TenantMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), TenantMiddleware(cfg))
	router.GET("/api/warehouses", func(c *gin.Context) {
		c.String(http.StatusOK, GetTenantID(c).String())
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestTenantMiddleware_Resolution(t *testing.T) {
	acme := newTenant(t, "Acme Logistics", "acme")
	globex := newTenant(t, "Globex Freight", "globex")
	resolver := &stubResolver{bySubdomain: map[string]*identity.Tenant{"acme": acme, "globex": globex}}

	router := tenantRouter(TenantMiddlewareConfig{
		Resolver:      resolver,
		BaseDomain:    "tms.io",
		AllowIDHeader: true,
		SkipPaths:     []string{"/health"},
	})

	tests := []struct {
		name       string
		host       string
		headers    map[string]string
		wantStatus int
		wantTenant uuid.UUID
	}{
		{"subdomain header", "localhost", map[string]string{TenantSubdomainHeader: "acme"}, http.StatusOK, acme.ID},
		{"host subdomain", "globex.tms.io:8080", nil, http.StatusOK, globex.ID},
		{"header wins over host", "globex.tms.io", map[string]string{TenantSubdomainHeader: "acme"}, http.StatusOK, acme.ID},
		{"id header", "localhost", map[string]string{TenantIDHeader: globex.ID.String()}, http.StatusOK, globex.ID},
		{"unknown subdomain", "localhost", map[string]string{TenantSubdomainHeader: "nobody"}, http.StatusNotFound, uuid.Nil},
		{"malformed id header", "localhost", map[string]string{TenantIDHeader: "not-a-uuid"}, http.StatusNotFound, uuid.Nil},
		{"no tenant at all", "localhost", nil, http.StatusNotFound, uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/warehouses", nil)
			req.Host = tt.host
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantTenant.String(), w.Body.String())
				return
			}
			resp := decodeError(t, w)
			assert.Equal(t, dto.ErrCodeTenantNotFound, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestTenantMiddleware_IDHeaderIgnoredUnlessAllowed(t *testing.T) {
	acme := newTenant(t, "Acme Logistics", "acme")
	router := tenantRouter(TenantMiddlewareConfig{
		Resolver: &stubResolver{bySubdomain: map[string]*identity.Tenant{"acme": acme}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/warehouses", nil)
	req.Header.Set(TenantIDHeader, acme.ID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTenantMiddleware_SuspendedTenant(t *testing.T) {
	acme := newTenant(t, "Acme Logistics", "acme")
	acme.Status = identity.TenantStatusSuspended
	router := tenantRouter(TenantMiddlewareConfig{
		Resolver: &stubResolver{bySubdomain: map[string]*identity.Tenant{"acme": acme}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/warehouses", nil)
	req.Header.Set(TenantSubdomainHeader, "acme")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeTenantInactive, decodeError(t, w).Code)
}

func TestTenantMiddleware_ResolverFailure(t *testing.T) {
	router := tenantRouter(TenantMiddlewareConfig{
		Resolver: &stubResolver{err: errors.New("connection refused")},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/warehouses", nil)
	req.Header.Set(TenantSubdomainHeader, "acme")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	resolver := &stubResolver{}
	router := tenantRouter(TenantMiddlewareConfig{Resolver: resolver, SkipPaths: []string{"/health"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resolver.calls)
}

func TestSubdomainFromHost(t *testing.T) {
	tests := []struct {
		host, base, want string
	}{
		{"acme.tms.io", "tms.io", "acme"},
		{"ACME.tms.io:443", "tms.io", "acme"},
		{"eu.acme.tms.io", "tms.io", "eu"},
		{"tms.io", "tms.io", ""},
		{"acme.other.io", "tms.io", ""},
		{"localhost:8080", ".tms.io", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, subdomainFromHost(tt.host, tt.base), tt.host)
	}
}
