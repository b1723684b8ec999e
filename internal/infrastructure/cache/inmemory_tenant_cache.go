package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tms/backend/internal/domain/identity"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryTenantCache is a process-local tenant cache for single-instance
// deployments and tests
type InMemoryTenantCache struct {
	entries sync.Map // subdomain -> *cacheEntry[identity.Tenant]
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryTenantCache creates the cache and starts its cleanup loop. Close stops it.
func NewInMemoryTenantCache(logger *zap.Logger) *InMemoryTenantCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &InMemoryTenantCache{
		logger: logger.Named("tenant_cache"),
		stopCh: make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func normalizeKey(subdomain string) string {
	return strings.ToLower(strings.TrimSpace(subdomain))
}

// Get returns a copy of the cached tenant, or nil on a miss
func (c *InMemoryTenantCache) Get(_ context.Context, subdomain string) (*identity.Tenant, error) {
	key := normalizeKey(subdomain)
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry[identity.Tenant])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			tenant := entry.value
			return &tenant, nil
		}
		c.entries.Delete(key)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores a copy of the tenant
func (c *InMemoryTenantCache) Set(_ context.Context, tenant *identity.Tenant, ttl time.Duration) error {
	if tenant == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTenantTTL
	}
	c.entries.Store(normalizeKey(tenant.Subdomain), &cacheEntry[identity.Tenant]{
		value:     *tenant,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete invalidates a subdomain
func (c *InMemoryTenantCache) Delete(_ context.Context, subdomain string) error {
	c.entries.Delete(normalizeKey(subdomain))
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryTenantCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the cleanup loop
func (c *InMemoryTenantCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryTenantCache) cleanupLoop() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *InMemoryTenantCache) removeExpired() int {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry[identity.Tenant]).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Removed expired tenant cache entries", zap.Int("count", removed))
	}
	return removed
}

var _ identity.TenantCache = (*InMemoryTenantCache)(nil)
