package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remote     string
		wantStatus int
	}{
		{"disabled", SwaggerConfig{Enabled: false}, "127.0.0.1:1234", http.StatusNotFound},
		{"open", SwaggerConfig{Enabled: true}, "203.0.113.9:1234", http.StatusOK},
		{"ip allowed", SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, "127.0.0.1:1234", http.StatusOK},
		{"cidr allowed", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "10.20.30.40:1234", http.StatusOK},
		{"outside whitelist", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "203.0.113.9:1234", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remote
			w := httptest.NewRecorder()
			swaggerRouter(tt.cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				decodeError(t, w)
			}
		})
	}
}

func TestIsIPAllowed(t *testing.T) {
	_, n, _ := net.ParseCIDR("192.168.0.0/16")
	ips := []net.IP{net.ParseIP("::1")}

	assert.True(t, isIPAllowed(net.ParseIP("::1"), ips, nil))
	assert.True(t, isIPAllowed(net.ParseIP("192.168.4.2"), nil, []*net.IPNet{n}))
	assert.False(t, isIPAllowed(net.ParseIP("192.169.0.1"), ips, []*net.IPNet{n}))
	assert.False(t, isIPAllowed(nil, ips, nil))
}
