package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked token ids until their natural expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenBlacklist keeps one key per revoked jti with a TTL equal to the
// token's remaining lifetime.
type RedisTokenBlacklist struct {
	redis     *redis.Client
	keyPrefix string
}

func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{redis: client, keyPrefix: "auth:revoked"}
}

func (b *RedisTokenBlacklist) key(jti string) string {
	return fmt.Sprintf("%s:%s", b.keyPrefix, jti)
}

func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.redis.Set(ctx, b.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.redis.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
