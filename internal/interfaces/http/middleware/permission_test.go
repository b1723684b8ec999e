package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/interfaces/http/dto"
)

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		claims     *auth.Claims
		required   string
		wantStatus int
	}{
		{"exact grant", &auth.Claims{Permissions: []string{"container:update"}}, "container:update", http.StatusOK},
		{"resource wildcard", &auth.Claims{Permissions: []string{"container:*"}}, "container:delete", http.StatusOK},
		{"admin wildcard", &auth.Claims{Permissions: []string{"*"}}, "tenant:update", http.StatusOK},
		{"other resource", &auth.Claims{Permissions: []string{"booking:*"}}, "container:read", http.StatusForbidden},
		{"no session", nil, "container:read", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withClaims(tt.claims), RequirePermission(tt.required))
			router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, w).Code)
			}
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	router := gin.New()
	router.Use(withClaims(&auth.Claims{Permissions: []string{"dispatch:read"}}),
		RequireAnyPermission("dispatch:update", "dispatch:read"))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
