package fake

import (
	"context"

	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/repository"
)

// TokenRepository is an in-memory fake implementing repository.TokenRepository.
// Unlike the Redis implementation it never expires entries on its own; the
// issuer's clock-based check covers expiry in tests.
type TokenRepository struct {
	byValue map[string]domain.AccessToken
}

// NewTokenRepository creates a new in-memory fake token repo.
func NewTokenRepository() *TokenRepository {
	return &TokenRepository{byValue: make(map[string]domain.AccessToken)}
}

func (r *TokenRepository) Insert(_ context.Context, t domain.AccessToken) error {
	r.byValue[t.Value] = t
	return nil
}

func (r *TokenRepository) Find(_ context.Context, value string) (domain.AccessToken, error) {
	if t, ok := r.byValue[value]; ok {
		return t, nil
	}
	return domain.AccessToken{}, repository.ErrNotFound
}

func (r *TokenRepository) DeleteByDomain(_ context.Context, name string) error {
	for v, t := range r.byValue {
		if t.Domain == name {
			delete(r.byValue, v)
		}
	}
	return nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
