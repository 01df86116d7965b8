// Package service contains business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/password"
	"github.com/roguepikachu/sendy/internal/repository"
	"github.com/roguepikachu/sendy/pkg/logger"
)

// Error variables
var (
	ErrDomainNotFound  = errors.New("domain not found")
	ErrDomainExpired   = errors.New("domain expired")
	ErrDomainExists    = errors.New("domain already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidName     = errors.New("invalid domain name")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrTooManyFiles    = errors.New("too many files")
)

var nameRe = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

// validDurations holds the selectable lifetimes in milliseconds.
var validDurations = map[int64]bool{
	domain.DurationHour: true,
	domain.DurationDay:  true,
	domain.DurationWeek: true,
}

// UpdatePayload carries the full replacement state for a save: content,
// style, and the entire files sequence. There is no merge.
type UpdatePayload struct {
	Content string
	Meta    domain.Meta
	Files   []domain.FileMeta
}

// Issuer is the token capability the lifecycle controller depends on.
type Issuer interface {
	Issue(ctx context.Context, name string) (domain.AccessToken, error)
	Verify(ctx context.Context, name, value string) bool
	Revoke(ctx context.Context, name string) error
}

// Service implements the domain lifecycle: creation, locked/unlocked
// access, mutation, and expiry.
type Service struct {
	repo   repository.DomainRepository
	issuer Issuer
	hasher password.Hasher
	clock  Clock
}

// NewService creates a Service with the given repository, token issuer,
// password hasher, and clock.
func NewService(repo repository.DomainRepository, issuer Issuer, hasher password.Hasher, clock Clock) *Service {
	return &Service{repo: repo, issuer: issuer, hasher: hasher, clock: clock}
}

// Create registers a new domain. Names held by an active domain conflict;
// an expired tombstone of the same name is overwritten.
func (s *Service) Create(ctx context.Context, name, pass string, durationMs int64) (domain.Public, error) {
	if !nameRe.MatchString(name) {
		return domain.Public{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !validDurations[durationMs] {
		return domain.Public{}, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMs)
	}
	now := s.clock.Now()
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case err == nil:
		if !existing.ExpiredAt(now) {
			return domain.Public{}, fmt.Errorf("%w: %s", ErrDomainExists, name)
		}
	case errors.Is(err, repository.ErrNotFound):
		// free name
	default:
		return domain.Public{}, fmt.Errorf("find domain: %w", err)
	}

	var hash string
	if pass != "" {
		if hash, err = s.hasher.Hash(pass); err != nil {
			return domain.Public{}, err
		}
	}
	d := domain.Domain{
		Name:         name,
		PasswordHash: hash,
		Content:      domain.DefaultContent,
		Meta:         domain.NormalizeMeta(domain.Meta{}),
		Files:        []domain.FileMeta{},
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(durationMs) * time.Millisecond),
	}
	if err := s.repo.Upsert(ctx, d); err != nil {
		return domain.Public{}, fmt.Errorf("upsert domain: %w", err)
	}
	logger.With(ctx, map[string]any{"domain": name, "locked": d.Locked(), "expires_at": d.ExpiresAt}).Info("domain created")
	return d.Public(), nil
}

// fetch loads a record and applies the first two gates of the access
// decision table: missing before expired. Expiry always wins over any
// later authorization concern, so an expired-but-locked domain reports
// expired, never unauthorized.
func (s *Service) fetch(ctx context.Context, name string) (domain.Domain, error) {
	d, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Domain{}, fmt.Errorf("%w: %s", ErrDomainNotFound, name)
		}
		return domain.Domain{}, fmt.Errorf("find domain: %w", err)
	}
	if d.ExpiredAt(s.clock.Now()) {
		return domain.Domain{}, fmt.Errorf("%w: %s", ErrDomainExpired, name)
	}
	return d, nil
}

// authorize is the third gate: a locked domain needs a valid token for
// exactly this name. Unlocked domains pass unconditionally.
func (s *Service) authorize(ctx context.Context, d domain.Domain, token string) error {
	if !d.Locked() {
		return nil
	}
	if !s.issuer.Verify(ctx, d.Name, token) {
		return fmt.Errorf("%w: %s", ErrUnauthorized, d.Name)
	}
	return nil
}

// Get returns the normalized record, gated by existence, expiry, and
// authorization, strictly in that order.
func (s *Service) Get(ctx context.Context, name, token string) (domain.Public, error) {
	d, err := s.fetch(ctx, name)
	if err != nil {
		return domain.Public{}, err
	}
	if err := s.authorize(ctx, d, token); err != nil {
		return domain.Public{}, err
	}
	return d.Public(), nil
}

// Unlock checks the password and mints a fresh access token for the
// domain. Public domains unlock with any password, matching the original
// behavior of handing out a token without a check.
func (s *Service) Unlock(ctx context.Context, name, pass string) (domain.AccessToken, error) {
	d, err := s.fetch(ctx, name)
	if err != nil {
		return domain.AccessToken{}, err
	}
	if d.Locked() && !s.hasher.Verify(pass, d.PasswordHash) {
		return domain.AccessToken{}, fmt.Errorf("%w: incorrect password", ErrUnauthorized)
	}
	t, err := s.issuer.Issue(ctx, name)
	if err != nil {
		return domain.AccessToken{}, err
	}
	logger.With(ctx, map[string]any{"domain": name}).Info("domain unlocked")
	return t, nil
}

// Update replaces content, style, and the entire files sequence with the
// payload's values. The file cap is enforced before any store call; the
// controller never truncates silently.
func (s *Service) Update(ctx context.Context, name, token string, p UpdatePayload) (domain.Public, error) {
	if len(p.Files) > domain.MaxFiles {
		return domain.Public{}, fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(p.Files), domain.MaxFiles)
	}
	d, err := s.fetch(ctx, name)
	if err != nil {
		return domain.Public{}, err
	}
	if err := s.authorize(ctx, d, token); err != nil {
		return domain.Public{}, err
	}
	files := p.Files
	if files == nil {
		files = []domain.FileMeta{}
	}
	meta := domain.NormalizeMeta(p.Meta)
	if err := s.repo.Update(ctx, name, p.Content, meta, files); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Public{}, fmt.Errorf("%w: %s", ErrDomainNotFound, name)
		}
		return domain.Public{}, fmt.Errorf("update domain: %w", err)
	}
	d.Content = p.Content
	d.Meta = meta
	d.Files = files
	logger.With(ctx, map[string]any{"domain": name, "files": len(files)}).Info("domain updated")
	return d.Public(), nil
}

// Delete removes a domain and revokes its tokens. The expiry gate is
// skipped so owners can clean up spaces that have already lapsed.
func (s *Service) Delete(ctx context.Context, name, token string) error {
	d, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDomainNotFound, name)
		}
		return fmt.Errorf("find domain: %w", err)
	}
	if err := s.authorize(ctx, d, token); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, name); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete domain: %w", err)
	}
	if err := s.issuer.Revoke(ctx, name); err != nil {
		logger.Warn(ctx, "revoke tokens for %s: %v", name, err)
	}
	logger.With(ctx, map[string]any{"domain": name}).Info("domain deleted")
	return nil
}
