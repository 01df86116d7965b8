// Package postgres provides a Postgres-backed implementation of the domain repository.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/repository"
	"github.com/roguepikachu/sendy/pkg/logger"
)

// DomainRepository implements repository.DomainRepository using Postgres.
type DomainRepository struct {
	pool *pgxpool.Pool
}

// NewDomainRepository creates a new Postgres-backed domain repository.
func NewDomainRepository(pool *pgxpool.Pool) *DomainRepository {
	return &DomainRepository{pool: pool}
}

// EnsureSchema creates required tables if they don't exist.
func (r *DomainRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS domains (
    name TEXT PRIMARY KEY,
    password_hash TEXT NULL,
    content TEXT NOT NULL DEFAULT '',
    meta JSONB NOT NULL DEFAULT '{}'::jsonb,
    files JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_domains_expires_at ON domains (expires_at);
`
	_, err := r.pool.Exec(ctx, schema)
	if err != nil {
		return err
	}
	logger.Info(ctx, "postgres schema ensured")
	return nil
}

// Upsert writes the domain record, replacing any previous record with the
// same name. The service only calls this after deciding the name is free or
// holds an expired tombstone.
func (r *DomainRepository) Upsert(ctx context.Context, d domain.Domain) error {
	metaJSON, err := json.Marshal(d.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	filesJSON, err := json.Marshal(d.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	var hash *string
	if d.PasswordHash != "" {
		hash = &d.PasswordHash
	}
	const q = `
INSERT INTO domains (name, password_hash, content, meta, files, created_at, expires_at)
VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7)
ON CONFLICT (name) DO UPDATE SET
    password_hash = EXCLUDED.password_hash,
    content = EXCLUDED.content,
    meta = EXCLUDED.meta,
    files = EXCLUDED.files,
    created_at = EXCLUDED.created_at,
    expires_at = EXCLUDED.expires_at
`
	if _, err := r.pool.Exec(ctx, q, d.Name, hash, d.Content, string(metaJSON), string(filesJSON), d.CreatedAt, d.ExpiresAt); err != nil {
		return fmt.Errorf("upsert domain: %w", err)
	}
	return nil
}

// FindByName retrieves a domain by its name, expired or not.
func (r *DomainRepository) FindByName(ctx context.Context, name string) (domain.Domain, error) {
	const q = `
SELECT name, password_hash, content, meta, files, created_at, expires_at
FROM domains
WHERE name = $1
`
	var (
		d        domain.Domain
		hashPtr  *string
		metaRaw  []byte
		filesRaw []byte
	)
	err := r.pool.QueryRow(ctx, q, name).Scan(&d.Name, &hashPtr, &d.Content, &metaRaw, &filesRaw, &d.CreatedAt, &d.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Domain{}, repository.ErrNotFound
		}
		return domain.Domain{}, fmt.Errorf("query domain: %w", err)
	}
	if hashPtr != nil {
		d.PasswordHash = *hashPtr
	}
	if len(metaRaw) > 0 {
		if err := json.Unmarshal(metaRaw, &d.Meta); err != nil {
			return domain.Domain{}, fmt.Errorf("unmarshal meta: %w", err)
		}
	}
	if len(filesRaw) > 0 {
		if err := json.Unmarshal(filesRaw, &d.Files); err != nil {
			return domain.Domain{}, fmt.Errorf("unmarshal files: %w", err)
		}
	}
	return d, nil
}

// Update replaces content, meta, and the whole files sequence of an
// existing domain. Timestamps and the password hash are untouched.
func (r *DomainRepository) Update(ctx context.Context, name, content string, meta domain.Meta, files []domain.FileMeta) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if files == nil {
		files = []domain.FileMeta{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	const q = `
UPDATE domains
SET content = $2, meta = $3::jsonb, files = $4::jsonb
WHERE name = $1
`
	ct, err := r.pool.Exec(ctx, q, name, content, string(metaJSON), string(filesJSON))
	if err != nil {
		return fmt.Errorf("update domain: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the domain record entirely.
func (r *DomainRepository) Delete(ctx context.Context, name string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM domains WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.DomainRepository = (*DomainRepository)(nil)
