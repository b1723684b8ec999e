package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/interfaces/http/dto"
)

// SwaggerConfig holds configuration for Swagger endpoint protection
type SwaggerConfig struct {
	Enabled bool
	// AllowedIPs is an IP or CIDR whitelist; empty allows everyone
	AllowedIPs []string
}

// SwaggerProtection hides the API docs when disabled and restricts them to
// the configured networks otherwise
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	var nets []*net.IPNet
	var ips []net.IP
	for _, raw := range cfg.AllowedIPs {
		if strings.Contains(raw, "/") {
			if _, n, err := net.ParseCIDR(raw); err == nil {
				nets = append(nets, n)
			}
			continue
		}
		if ip := net.ParseIP(raw); ip != nil {
			ips = append(ips, ip)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}
		if len(cfg.AllowedIPs) > 0 && !isIPAllowed(net.ParseIP(c.ClientIP()), ips, nets) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "access to API documentation is restricted")
			return
		}
		c.Next()
	}
}

func isIPAllowed(ip net.IP, ips []net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
