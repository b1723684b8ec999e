package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/tms/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// NewTenantCache returns a Redis-backed cache when a client is available,
// otherwise a process-local one
func NewTenantCache(client *redis.Client, logger *zap.Logger) identity.TenantCache {
	if client != nil {
		return NewRedisTenantCache(client, logger)
	}
	if logger != nil {
		logger.Warn("Redis is not configured; tenant lookups are cached per process")
	}
	return NewInMemoryTenantCache(logger)
}
