// Package fake provides in-memory fakes for repository interfaces for testing.
package fake

import (
	"context"

	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/repository"
)

// DomainRepository is an in-memory fake implementing repository.DomainRepository.
// It's intentionally simple and not concurrency-safe (tests typically run single-threaded).
type DomainRepository struct {
	byName map[string]domain.Domain
}

// Option configures the fake repository.
type Option func(*DomainRepository)

// WithDomains seeds the repository with the provided domains (by name).
func WithDomains(items ...domain.Domain) Option {
	return func(r *DomainRepository) {
		for _, d := range items {
			r.byName[d.Name] = d
		}
	}
}

// NewDomainRepository creates a new in-memory fake repo.
func NewDomainRepository(opts ...Option) *DomainRepository {
	r := &DomainRepository{byName: make(map[string]domain.Domain)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *DomainRepository) Upsert(_ context.Context, d domain.Domain) error {
	r.byName[d.Name] = d
	return nil
}

func (r *DomainRepository) FindByName(_ context.Context, name string) (domain.Domain, error) {
	if d, ok := r.byName[name]; ok {
		return d, nil
	}
	return domain.Domain{}, repository.ErrNotFound
}

func (r *DomainRepository) Update(_ context.Context, name, content string, meta domain.Meta, files []domain.FileMeta) error {
	d, ok := r.byName[name]
	if !ok {
		return repository.ErrNotFound
	}
	if files == nil {
		files = []domain.FileMeta{}
	}
	d.Content = content
	d.Meta = meta
	d.Files = files
	r.byName[name] = d
	return nil
}

func (r *DomainRepository) Delete(_ context.Context, name string) error {
	if _, ok := r.byName[name]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byName, name)
	return nil
}

// DeleteByName removes a record directly, bypassing the repository
// contract. Useful for proving cache hits in tests.
func (r *DomainRepository) DeleteByName(name string) {
	delete(r.byName, name)
}

var _ repository.DomainRepository = (*DomainRepository)(nil)
