// Package redis provides a Redis-backed implementation of the token repository.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/repository"
)

func keyToken(value string) string { return "token:" + value }

// TokenRepository implements repository.TokenRepository using Redis as
// backend. Tokens carry their own TTL, so expired tokens vanish on their own
// and verification fails closed on the resulting miss.
type TokenRepository struct {
	client *redis.Client
}

// NewTokenRepository creates a new Redis-backed token repository.
func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{client: client}
}

// Insert stores the token with a TTL matching its expiry.
func (r *TokenRepository) Insert(ctx context.Context, t domain.AccessToken) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		// Already expired, nothing worth storing.
		return nil
	}
	if err := r.client.Set(ctx, keyToken(t.Value), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Find retrieves a token by its opaque value.
func (r *TokenRepository) Find(ctx context.Context, value string) (domain.AccessToken, error) {
	val, err := r.client.Get(ctx, keyToken(value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.AccessToken{}, repository.ErrNotFound
		}
		return domain.AccessToken{}, fmt.Errorf("redis get: %w", err)
	}
	var t domain.AccessToken
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return domain.AccessToken{}, fmt.Errorf("unmarshal: %w", err)
	}
	return t, nil
}

// DeleteByDomain removes every token scoped to the given domain name.
// Used when a domain is deleted so stale capabilities cannot outlive it.
func (r *TokenRepository) DeleteByDomain(ctx context.Context, name string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, "token:*", 100).Result()
		if err != nil {
			return err
		}
		for _, k := range keys {
			val, err := r.client.Get(ctx, k).Result()
			if err != nil {
				continue
			}
			var t domain.AccessToken
			if err := json.Unmarshal([]byte(val), &t); err != nil {
				continue
			}
			if t.Domain == name {
				_ = r.client.Del(ctx, k).Err()
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
