// Package repository defines data access contracts for domains and tokens.
package repository

import (
	"context"
	"errors"

	"github.com/roguepikachu/sendy/internal/domain"
)

// ErrNotFound is returned when the store holds no record for the given key.
var ErrNotFound = errors.New("record not found")

// DomainRepository defines methods for domain data access. Expired records
// remain in the store as tombstones; Upsert is the only operation allowed
// to overwrite one.
type DomainRepository interface {
	Upsert(ctx context.Context, d domain.Domain) error
	FindByName(ctx context.Context, name string) (domain.Domain, error)
	Update(ctx context.Context, name, content string, meta domain.Meta, files []domain.FileMeta) error
	Delete(ctx context.Context, name string) error
}

// TokenRepository defines methods for access token storage. Implementations
// may expire tokens on their own; a missing token is simply invalid.
type TokenRepository interface {
	Insert(ctx context.Context, t domain.AccessToken) error
	Find(ctx context.Context, value string) (domain.AccessToken, error)
	DeleteByDomain(ctx context.Context, name string) error
}
