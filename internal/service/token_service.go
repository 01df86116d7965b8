package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/repository"
	"github.com/roguepikachu/sendy/pkg/logger"
)

// DefaultTokenTTL is the issuer's token lifetime when none is configured.
// Deliberately short relative to any domain duration.
const DefaultTokenTTL = time.Hour

// TokenIssuer mints and verifies access tokens scoped to a single domain.
// Tokens are opaque bearer strings; nothing outside the issuer and its
// repository inspects them.
type TokenIssuer struct {
	repo  repository.TokenRepository
	clock Clock
	ttl   time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given repository, clock,
// and token lifetime. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(repo repository.TokenRepository, clock Clock, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{repo: repo, clock: clock, ttl: ttl}
}

// generateValue returns a new opaque token value.
func generateValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Issue mints a token bound to the named domain. The token's expiry is the
// issuer's concern and is independent of the domain's own expiry.
func (i *TokenIssuer) Issue(ctx context.Context, name string) (domain.AccessToken, error) {
	value, err := generateValue()
	if err != nil {
		return domain.AccessToken{}, err
	}
	now := i.clock.Now()
	t := domain.AccessToken{
		Value:     value,
		Domain:    name,
		CreatedAt: now,
		ExpiresAt: now.Add(i.ttl),
	}
	if err := i.repo.Insert(ctx, t); err != nil {
		return domain.AccessToken{}, fmt.Errorf("store token: %w", err)
	}
	return t, nil
}

// Verify reports whether the token grants access to the named domain.
// Missing, malformed, expired, or mismatched tokens are all invalid;
// storage errors are logged and also treated as invalid.
func (i *TokenIssuer) Verify(ctx context.Context, name, value string) bool {
	if value == "" {
		return false
	}
	t, err := i.repo.Find(ctx, value)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Warn(ctx, "token lookup failed: %v", err)
		}
		return false
	}
	if t.Domain != name {
		return false
	}
	if !i.clock.Now().Before(t.ExpiresAt) {
		return false
	}
	return true
}

// Revoke discards every token scoped to the named domain.
func (i *TokenIssuer) Revoke(ctx context.Context, name string) error {
	return i.repo.DeleteByDomain(ctx, name)
}
