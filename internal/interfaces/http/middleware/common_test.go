package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://acme.tms.io"}

	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/api/warehouses", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin gets credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/warehouses", nil)
		req.Header.Set("Origin", "https://acme.tms.io")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://acme.tms.io", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), TenantSubdomainHeader)
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/warehouses", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight ends with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/warehouses", nil)
		req.Header.Set("Origin", "https://acme.tms.io")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})
}

func TestCORSWildcardNeverSendsCredentials(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"*"}

	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://anything.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generates an ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 32)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps a client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "trace-abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace-abc", w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces an oversized ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", MaxRequestIDLength+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 32)
	})
}

func TestSecureWithConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	cfg.HSTSPreload = true

	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains; preload", w.Header().Get("Strict-Transport-Security"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestSecureDefaultsOmitHSTS(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
}
