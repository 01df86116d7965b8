package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/repository/fake"
)

type stubClock struct{ t time.Time }

func (s *stubClock) Now() time.Time { return s.t }

func (s *stubClock) advance(d time.Duration) { s.t = s.t.Add(d) }

// plainHasher keeps service tests fast; the real bcrypt capability is
// covered in the password package.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "plain:" + p, nil }

func (plainHasher) Verify(p, hash string) bool { return "plain:"+p == hash }

func newTestService(clock *stubClock) (*Service, *fake.DomainRepository, *TokenIssuer) {
	repo := fake.NewDomainRepository()
	issuer := NewTokenIssuer(fake.NewTokenRepository(), clock, time.Hour)
	return NewService(repo, issuer, plainHasher{}, clock), repo, issuer
}

func TestCreate_PublicDomain(t *testing.T) {
	clock := &stubClock{t: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(clock)

	pub, err := svc.Create(context.Background(), "demo", "", domain.DurationHour)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pub.Domain != "demo" || pub.IsLocked {
		t.Fatalf("want unlocked demo, got %+v", pub)
	}
	if pub.ExpiresAt != clock.t.Add(time.Hour).UnixMilli() {
		t.Fatalf("expiry should be created_at + 1h, got %d", pub.ExpiresAt)
	}
	if pub.Content != domain.DefaultContent {
		t.Fatalf("fresh domain should carry default content, got %q", pub.Content)
	}
	if pub.Meta.FontSize != domain.DefaultFontSize {
		t.Fatalf("meta should be defaulted: %+v", pub.Meta)
	}
}

func TestCreate_DuplicateActiveNameConflicts(t *testing.T) {
	clock := &stubClock{t: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "demo", "", domain.DurationHour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, "demo", "", domain.DurationHour)
	if !errors.Is(err, ErrDomainExists) {
		t.Fatalf("expected ErrDomainExists, got %v", err)
	}
}

func TestCreate_ExpiredNameIsReusable(t *testing.T) {
	clock := &stubClock{t: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "temp", "", domain.DurationHour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	clock.advance(time.Hour + time.Millisecond)
	pub, err := svc.Create(ctx, "temp", "secret", domain.DurationDay)
	if err != nil {
		t.Fatalf("expired name should be reusable: %v", err)
	}
	if !pub.IsLocked {
		t.Fatalf("recreated domain should be locked")
	}
	if pub.CreatedAt != clock.t.UnixMilli() {
		t.Fatalf("recreated domain should get a fresh created_at")
	}
}

func TestCreate_Validation(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, repo, _ := newTestService(clock)
	ctx := context.Background()

	cases := []struct {
		name     string
		domain   string
		duration int64
		want     error
	}{
		{"too short", "ab", domain.DurationHour, ErrInvalidName},
		{"uppercase", "Demo", domain.DurationHour, ErrInvalidName},
		{"bad chars", "has space", domain.DurationHour, ErrInvalidName},
		{"too long", "a123456789012345678901234567890", domain.DurationHour, ErrInvalidName},
		{"zero duration", "demo", 0, ErrInvalidDuration},
		{"arbitrary duration", "demo", 1234, ErrInvalidDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.domain, "", tc.duration); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
	// Nothing should have reached the store.
	if _, err := repo.FindByName(ctx, "demo"); err == nil {
		t.Fatalf("invalid creates must not hit the store")
	}
}

func TestGet_NotFound(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	_, err := svc.Get(context.Background(), "nope", "")
	if !errors.Is(err, ErrDomainNotFound) {
		t.Fatalf("expected ErrDomainNotFound, got %v", err)
	}
}

func TestGet_ExpiryBoundary(t *testing.T) {
	start := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{t: start}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "temp", "", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}

	clock.t = start.Add(time.Hour - time.Millisecond)
	if _, err := svc.Get(ctx, "temp", ""); err != nil {
		t.Fatalf("one ms before expiry should succeed: %v", err)
	}

	clock.t = start.Add(time.Hour)
	if _, err := svc.Get(ctx, "temp", ""); !errors.Is(err, ErrDomainExpired) {
		t.Fatalf("at expiry want ErrDomainExpired, got %v", err)
	}

	clock.t = start.Add(time.Hour + time.Millisecond)
	if _, err := svc.Get(ctx, "temp", ""); !errors.Is(err, ErrDomainExpired) {
		t.Fatalf("past expiry want ErrDomainExpired, got %v", err)
	}
}

func TestGet_LockedWithoutTokenUnauthorized(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vault", "xyz", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(ctx, "vault", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Get(ctx, "vault", "bogus-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("bogus token should be rejected, got %v", err)
	}
}

func TestUnlockThenGet(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vault", "xyz", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	tok, err := svc.Unlock(ctx, "vault", "xyz")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if tok.Value == "" || tok.Domain != "vault" {
		t.Fatalf("bad token: %+v", tok)
	}
	pub, err := svc.Get(ctx, "vault", tok.Value)
	if err != nil {
		t.Fatalf("get with token: %v", err)
	}
	if !pub.IsLocked {
		t.Fatalf("record should still report is_locked=true")
	}
}

func TestUnlock_WrongPasswordNeverIssuesToken(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vault", "xyz", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	tok, err := svc.Unlock(ctx, "vault", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if tok.Value != "" {
		t.Fatalf("no token may be issued on a failed unlock")
	}
}

func TestUnlock_PublicDomainHandsOutToken(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "demo", "", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	tok, err := svc.Unlock(ctx, "demo", "anything")
	if err != nil {
		t.Fatalf("public unlock should succeed: %v", err)
	}
	if tok.Value == "" {
		t.Fatalf("expected token for public domain")
	}
}

func TestUnlock_ExpiredReportsExpired(t *testing.T) {
	start := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{t: start}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vault", "xyz", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.t = start.Add(2 * time.Hour)
	// The expiry gate outranks the password check: even the right
	// password reports expired, never unauthorized.
	if _, err := svc.Unlock(ctx, "vault", "xyz"); !errors.Is(err, ErrDomainExpired) {
		t.Fatalf("expected ErrDomainExpired, got %v", err)
	}
}

func TestGet_ExpiredLockedReportsExpiredNotUnauthorized(t *testing.T) {
	start := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{t: start}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vault", "xyz", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.t = start.Add(time.Hour)
	_, err := svc.Get(ctx, "vault", "")
	if !errors.Is(err, ErrDomainExpired) {
		t.Fatalf("expiry must outrank the lock check, got %v", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired domain must never report unauthorized")
	}
}

func TestUpdate_FullReplace(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "demo", "", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	files := []domain.FileMeta{
		{ID: "f1", Name: "a.txt", Size: 3, Type: "text/plain", UploadedAt: clock.t},
		{ID: "f2", Name: "b.txt", Size: 4, Type: "text/plain", UploadedAt: clock.t},
	}
	pub, err := svc.Update(ctx, "demo", "", UpdatePayload{
		Content: "<p>new</p>",
		Meta:    domain.Meta{FontSize: 24, Color: "#ff0000", Bold: true},
		Files:   files,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if pub.Content != "<p>new</p>" || len(pub.Files) != 2 || !pub.Meta.Bold {
		t.Fatalf("update not applied: %+v", pub)
	}

	// Replacing with an empty file list removes all attachments, and new
	// content discards the old entirely.
	pub, err = svc.Update(ctx, "demo", "", UpdatePayload{Content: "<p>bare</p>", Meta: pub.Meta, Files: []domain.FileMeta{}})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if len(pub.Files) != 0 {
		t.Fatalf("files should be fully replaced by empty list, got %d", len(pub.Files))
	}
	if pub.Content != "<p>bare</p>" {
		t.Fatalf("content should be replaced wholesale, got %q", pub.Content)
	}

	got, err := svc.Get(ctx, "demo", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Files) != 0 || got.Content != "<p>bare</p>" {
		t.Fatalf("store should hold the replaced state: %+v", got)
	}
}

func TestUpdate_FileCapRejectedBeforeStore(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "demo", "", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	files := make([]domain.FileMeta, 6)
	for i := range files {
		files[i] = domain.FileMeta{ID: string(rune('a' + i)), Name: "f", UploadedAt: clock.t}
	}
	if _, err := svc.Update(ctx, "demo", "", UpdatePayload{Files: files}); !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("expected ErrTooManyFiles, got %v", err)
	}
	// The stored record must be untouched.
	got, err := svc.Get(ctx, "demo", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != domain.DefaultContent || len(got.Files) != 0 {
		t.Fatalf("rejected update must leave prior version intact: %+v", got)
	}
}

func TestUpdate_LockedNeedsToken(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vault", "xyz", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, "vault", "", UpdatePayload{Content: "x"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	tok, err := svc.Unlock(ctx, "vault", "xyz")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := svc.Update(ctx, "vault", tok.Value, UpdatePayload{Content: "x"}); err != nil {
		t.Fatalf("authorized update: %v", err)
	}
}

func TestUpdate_NotFoundAndExpired(t *testing.T) {
	start := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{t: start}
	svc, _, _ := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Update(ctx, "ghost", "", UpdatePayload{}); !errors.Is(err, ErrDomainNotFound) {
		t.Fatalf("expected ErrDomainNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, "temp", "", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.t = start.Add(2 * time.Hour)
	if _, err := svc.Update(ctx, "temp", "", UpdatePayload{}); !errors.Is(err, ErrDomainExpired) {
		t.Fatalf("expected ErrDomainExpired, got %v", err)
	}
}

func TestDelete_RevokesAndRemoves(t *testing.T) {
	clock := &stubClock{t: time.Now().UTC()}
	svc, _, issuer := newTestService(clock)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vault", "xyz", domain.DurationHour); err != nil {
		t.Fatalf("create: %v", err)
	}
	tok, err := svc.Unlock(ctx, "vault", "xyz")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	// Without a token the delete is refused.
	if err := svc.Delete(ctx, "vault", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.Delete(ctx, "vault", tok.Value); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "vault", tok.Value); !errors.Is(err, ErrDomainNotFound) {
		t.Fatalf("deleted domain should be gone, got %v", err)
	}
	if issuer.Verify(ctx, "vault", tok.Value) {
		t.Fatalf("tokens must be revoked with the domain")
	}
}
