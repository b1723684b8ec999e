package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window with the given burst. Buckets
// idle for two windows are dropped.
func NewRateLimiter(requests int, window time.Duration, burst int) *RateLimiter {
	if burst < 1 {
		burst = requests
	}
	return &RateLimiter{
		clients: make(map[string]*bucket),
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   burst,
		idleTTL: 2 * window,
	}
}

// Allow takes a token from key's bucket
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.clients[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	allowed = b.limiter.AllowN(now, 1)
	remaining = int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// Cleanup drops idle buckets every interval until ctx is done
func (rl *RateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, b := range rl.clients {
				if now.Sub(b.lastSeen) > rl.idleTTL {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RateLimit limits requests per client IP, separately per tenant subdomain
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		key := c.ClientIP()
		if sub := c.GetHeader(TenantSubdomainHeader); sub != "" {
			key = sub + ":" + key
		}
		return key
	})
}

// RateLimitByKey limits requests per key returned by keyFunc
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	burst := strconv.Itoa(limiter.burst)
	return func(c *gin.Context) {
		allowed, remaining := limiter.Allow(keyFunc(c))
		c.Header("X-RateLimit-Limit", burst)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "too many requests, try again later")
			return
		}
		c.Next()
	}
}
