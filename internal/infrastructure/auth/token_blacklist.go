package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes session tokens before they expire
type TokenBlacklist interface {
	// Revoke blacklists a token's jti; ttl should be the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether the jti was revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUser invalidates every token issued to the user up to now
	RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	// IsUserRevoked reports whether a token issued at issuedAt predates the user's revocation
	IsUserRevoked(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error)
}

// RedisTokenBlacklist keeps revocations in Redis so every instance sees them
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a blacklist over an existing client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: "tms:session:revoked:",
	}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *RedisTokenBlacklist) userKey(userID uuid.UUID) string {
	return b.keyPrefix + "user:" + userID.String()
}

// Revoke blacklists a jti
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks a jti
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session blacklist: %w", err)
	}
	return exists > 0, nil
}

// RevokeUser stores the revocation time in unix nanoseconds
func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.userKey(userID), time.Now().UnixNano(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return nil
}

// IsUserRevoked compares the token's issue time with the stored revocation time
func (b *RedisTokenBlacklist) IsUserRevoked(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, b.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation time: %w", err)
	}
	// JWT issue times have second precision
	return issuedAt.Unix() <= time.Unix(0, revokedAt).Unix(), nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist keeps revocations in process memory.
// Revocations are not shared between instances.
type InMemoryTokenBlacklist struct {
	mu        sync.Mutex
	jtis      map[string]time.Time    // jti -> entry expiry
	revokedAt map[uuid.UUID]time.Time // user -> revocation time
}

// NewInMemoryTokenBlacklist creates an empty blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:      make(map[string]time.Time),
		revokedAt: make(map[uuid.UUID]time.Time),
	}
}

// Revoke blacklists a jti
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks a jti and drops the entry once it has expired
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser records the revocation time
func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID uuid.UUID, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revokedAt[userID] = time.Now()
	return nil
}

// IsUserRevoked compares the token's issue time with the revocation time
func (b *InMemoryTokenBlacklist) IsUserRevoked(_ context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	revokedAt, ok := b.revokedAt[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.Unix() <= revokedAt.Unix(), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

// NewTokenBlacklist picks the Redis blacklist when a client is available
func NewTokenBlacklist(client *redis.Client) TokenBlacklist {
	if client != nil {
		return NewRedisTokenBlacklist(client)
	}
	return NewInMemoryTokenBlacklist()
}
