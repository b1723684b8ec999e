package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tms/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// DefaultTenantTTL is used when Set is called with a zero TTL
const DefaultTenantTTL = 5 * time.Minute

// RedisTenantCache caches subdomain -> tenant lookups in Redis so every
// instance shares them
type RedisTenantCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisTenantCache creates a tenant cache over an existing client
func NewRedisTenantCache(client *redis.Client, logger *zap.Logger) *RedisTenantCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisTenantCache{
		client:    client,
		keyPrefix: "tms:tenant:subdomain:",
		logger:    logger.Named("tenant_cache"),
	}
}

func (c *RedisTenantCache) key(subdomain string) string {
	return c.keyPrefix + strings.ToLower(strings.TrimSpace(subdomain))
}

// Get returns the cached tenant, or nil on a miss
func (c *RedisTenantCache) Get(ctx context.Context, subdomain string) (*identity.Tenant, error) {
	key := c.key(subdomain)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant cache: %w", err)
	}

	var tenant identity.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		c.logger.Warn("Dropping corrupt tenant cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key)
		return nil, nil
	}
	return &tenant, nil
}

// Set caches a tenant under its subdomain
func (c *RedisTenantCache) Set(ctx context.Context, tenant *identity.Tenant, ttl time.Duration) error {
	if tenant == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTenantTTL
	}
	data, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("failed to encode tenant: %w", err)
	}
	if err := c.client.Set(ctx, c.key(tenant.Subdomain), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write tenant cache: %w", err)
	}
	return nil
}

// Delete invalidates a subdomain
func (c *RedisTenantCache) Delete(ctx context.Context, subdomain string) error {
	if err := c.client.Del(ctx, c.key(subdomain)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tenant cache: %w", err)
	}
	return nil
}

var _ identity.TenantCache = (*RedisTenantCache)(nil)
