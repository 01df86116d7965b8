// Package domain contains domain models for the application.
package domain

import (
	"time"
)

// Domain durations selectable at creation, in milliseconds.
const (
	DurationHour = int64(60 * 60 * 1000)
	DurationDay  = int64(24 * 60 * 60 * 1000)
	DurationWeek = int64(7 * 24 * 60 * 60 * 1000)
)

// Style defaults applied during normalization.
const (
	DefaultFontSize = 18
	DefaultColor    = "#111827"
)

// DefaultContent is the content a freshly created domain starts with.
const DefaultContent = "<p>Your Sendy clipboard</p>"

// MaxFiles is the maximum number of attachments a domain may hold.
const MaxFiles = 5

// Meta holds presentation metadata stored alongside the content.
type Meta struct {
	FontSize int    `json:"font_size"`
	Color    string `json:"color"`
	Bold     bool   `json:"bold"`
}

// FileMeta represents a single attachment owned by a domain. URL carries
// either an embedded data-URI payload or an external reference.
type FileMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Domain represents a named, time-limited shared clipboard as stored.
// PasswordHash is empty for publicly accessible domains and never leaves
// the service layer.
type Domain struct {
	Name         string     `json:"name"`
	PasswordHash string     `json:"password_hash,omitempty"`
	Content      string     `json:"content"`
	Meta         Meta       `json:"meta"`
	Files        []FileMeta `json:"files"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// Locked reports whether the domain requires a password/token for access.
func (d Domain) Locked() bool { return d.PasswordHash != "" }

// ExpiredAt reports whether the domain's time limit has elapsed at the
// given instant. Expiry is inclusive: a domain is gone at exactly ExpiresAt.
func (d Domain) ExpiredAt(now time.Time) bool { return !now.Before(d.ExpiresAt) }

// AccessToken is a short-lived bearer capability scoped to one domain.
type AccessToken struct {
	Value     string    `json:"value"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PublicFile is the normalized wire shape of an attachment.
type PublicFile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	UploadedAt int64  `json:"uploaded_at"`
}

// Public is the normalized read shape of a domain: epoch-millisecond
// timestamps, defaulted meta, and a derived lock flag instead of the
// password hash.
type Public struct {
	Domain    string       `json:"domain"`
	CreatedAt int64        `json:"created_at"`
	ExpiresAt int64        `json:"expires_at"`
	Content   string       `json:"content"`
	Meta      Meta         `json:"meta"`
	Files     []PublicFile `json:"files"`
	IsLocked  bool         `json:"is_locked"`
}

// NormalizeMeta fills absent style fields with their defaults. Applying it
// twice yields the same result as applying it once.
func NormalizeMeta(m Meta) Meta {
	if m.FontSize == 0 {
		m.FontSize = DefaultFontSize
	}
	if m.Color == "" {
		m.Color = DefaultColor
	}
	return m
}

// NormalizePublic re-applies normalization to an already public record.
// Idempotent, so consumers may normalize defensively after decoding.
func NormalizePublic(p Public) Public {
	p.Meta = NormalizeMeta(p.Meta)
	if p.Files == nil {
		p.Files = []PublicFile{}
	}
	return p
}

// Public converts the stored record into its normalized read shape. The
// password hash is dropped in favor of the IsLocked flag.
func (d Domain) Public() Public {
	files := make([]PublicFile, 0, len(d.Files))
	for _, f := range d.Files {
		files = append(files, PublicFile{
			ID:         f.ID,
			Name:       f.Name,
			Size:       f.Size,
			Type:       f.Type,
			URL:        f.URL,
			UploadedAt: f.UploadedAt.UnixMilli(),
		})
	}
	return NormalizePublic(Public{
		Domain:    d.Name,
		CreatedAt: d.CreatedAt.UnixMilli(),
		ExpiresAt: d.ExpiresAt.UnixMilli(),
		Content:   d.Content,
		Meta:      d.Meta,
		Files:     files,
		IsLocked:  d.Locked(),
	})
}

// CreateDomainRequestDTO represents the expected request body for creating a domain.
type CreateDomainRequestDTO struct {
	Domain     string  `json:"domain" binding:"required"`
	Password   *string `json:"password"`
	DurationMs int64   `json:"duration_ms" binding:"required"`
}

// UnlockRequestDTO represents the expected request body for unlocking a domain.
type UnlockRequestDTO struct {
	Password string `json:"password"`
}

// UnlockResponseDTO carries a freshly minted access token and its expiry
// in epoch milliseconds.
type UnlockResponseDTO struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// FileDTO represents an attachment in an update request.
type FileDTO struct {
	ID         string `json:"id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	UploadedAt int64  `json:"uploaded_at"`
}

// UpdateDomainRequestDTO represents the expected request body for updating
// a domain. The whole of content, meta, and files is replaced on save.
type UpdateDomainRequestDTO struct {
	Content string    `json:"content"`
	Meta    Meta      `json:"meta"`
	Files   []FileDTO `json:"files"`
}
