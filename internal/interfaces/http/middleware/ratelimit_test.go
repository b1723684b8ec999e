package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tms/backend/internal/interfaces/http/dto"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, 3)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		assert.True(t, ok, "request %d", i)
	}
	ok, remaining := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "other clients have their own bucket")
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(10, 5*time.Millisecond, 10)
	rl.Allow("a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rl.Cleanup(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return rl.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRateLimit_Middleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(2, time.Minute, 2)))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(sub string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if sub != "" {
			req.Header.Set(TenantSubdomainHeader, sub)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("acme").Code)
	w := send("acme")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = send("acme")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, decodeError(t, w).Code)

	assert.Equal(t, http.StatusOK, send("globex").Code, "tenants are limited separately")
}
