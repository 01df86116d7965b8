// Package cached provides a caching wrapper over a primary domain repository using Redis.
package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/repository"
)

func keyDomain(name string) string { return "domain:" + name }

// DomainRepository is a cache-aside repository combining Redis with a
// primary store. Reads are served from cache when possible; every write
// goes through to the primary and refreshes or busts the cached entry.
type DomainRepository struct {
	primary repository.DomainRepository
	redis   *redis.Client
	ttl     time.Duration
}

// NewDomainRepository creates a new cached repository.
func NewDomainRepository(primary repository.DomainRepository, redis *redis.Client, ttl time.Duration) *DomainRepository {
	return &DomainRepository{primary: primary, redis: redis, ttl: ttl}
}

// cacheTTL caps the configured TTL at the record's remaining lifetime so a
// cached copy can never outlive the domain itself.
func (r *DomainRepository) cacheTTL(d domain.Domain) time.Duration {
	exp := r.ttl
	if until := time.Until(d.ExpiresAt); until > 0 && (exp == 0 || until < exp) {
		exp = until
	}
	return exp
}

func (r *DomainRepository) cacheSet(ctx context.Context, d domain.Domain) {
	ttl := r.cacheTTL(d)
	if ttl <= 0 {
		return
	}
	data, _ := json.Marshal(d)
	_ = r.redis.Set(ctx, keyDomain(d.Name), data, ttl).Err()
}

// Upsert writes through to primary and refreshes the cache.
func (r *DomainRepository) Upsert(ctx context.Context, d domain.Domain) error {
	if err := r.primary.Upsert(ctx, d); err != nil {
		return err
	}
	r.cacheSet(ctx, d)
	return nil
}

// FindByName attempts Redis then falls back to primary.
func (r *DomainRepository) FindByName(ctx context.Context, name string) (domain.Domain, error) {
	val, err := r.redis.Get(ctx, keyDomain(name)).Result()
	if err == nil && val != "" {
		var d domain.Domain
		if jsonErr := json.Unmarshal([]byte(val), &d); jsonErr == nil {
			return d, nil
		}
	}
	d, err := r.primary.FindByName(ctx, name)
	if err != nil {
		return domain.Domain{}, err
	}
	r.cacheSet(ctx, d)
	return d, nil
}

// Update writes through to primary and busts the cached entry. The next
// read re-fills from the primary's authoritative copy.
func (r *DomainRepository) Update(ctx context.Context, name, content string, meta domain.Meta, files []domain.FileMeta) error {
	if err := r.primary.Update(ctx, name, content, meta, files); err != nil {
		return err
	}
	_ = r.redis.Del(ctx, keyDomain(name)).Err()
	return nil
}

// Delete removes the record from primary and cache.
func (r *DomainRepository) Delete(ctx context.Context, name string) error {
	if err := r.primary.Delete(ctx, name); err != nil {
		return err
	}
	_ = r.redis.Del(ctx, keyDomain(name)).Err()
	return nil
}

var _ repository.DomainRepository = (*DomainRepository)(nil)
