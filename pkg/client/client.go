// Package client is a Go client for the Sendy API. It mirrors the browser
// frontend's behavior: names are case-folded before they reach the wire,
// responses are normalized defensively, and unlock tokens are cached per
// domain with their own expiry, independent of the domain's.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/roguepikachu/sendy/pkg/kvcache"
)

const headerAccessToken = "X-Access-Token"

const tokenKeyPrefix = "sendy:token:"

// Error variables mirroring the server's failure taxonomy.
var (
	ErrNotFound     = errors.New("domain not found")
	ErrGone         = errors.New("domain expired")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("domain already exists")
	ErrValidation   = errors.New("validation failed")
)

// Meta holds presentation metadata for the clipboard content.
type Meta struct {
	FontSize int    `json:"font_size"`
	Color    string `json:"color"`
	Bold     bool   `json:"bold"`
}

// File is an attachment as seen on the wire.
type File struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	UploadedAt int64  `json:"uploaded_at"`
}

// Domain is the normalized record the API returns. Timestamps are epoch
// milliseconds; the password never appears, only IsLocked.
type Domain struct {
	Domain    string `json:"domain"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
	Content   string `json:"content"`
	Meta      Meta   `json:"meta"`
	Files     []File `json:"files"`
	IsLocked  bool   `json:"is_locked"`
}

// UpdatePayload carries the full replacement state for a save.
type UpdatePayload struct {
	Content string `json:"content"`
	Meta    Meta   `json:"meta"`
	Files   []File `json:"files"`
}

// Unlock is the result of a successful unlock call.
type Unlock struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Normalize fills defaulted style fields and empty collections. Applying
// it twice yields the same record, so callers may normalize freely.
func Normalize(d Domain) Domain {
	if d.Meta.FontSize == 0 {
		d.Meta.FontSize = 18
	}
	if d.Meta.Color == "" {
		d.Meta.Color = "#111827"
	}
	if d.Files == nil {
		d.Files = []File{}
	}
	return d
}

// Client talks to a Sendy server. Tokens from Unlock are remembered per
// domain and attached to subsequent Get/Update/Delete calls until they
// expire.
type Client struct {
	base   string
	http   *http.Client
	tokens *kvcache.Store
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTokenCache overrides the token cache, e.g. to share one across clients.
func WithTokenCache(s *kvcache.Store) Option { return func(c *Client) { c.tokens = s } }

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 10 * time.Second},
		tokens: kvcache.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Client) cachedToken(name string) string {
	v, _ := c.tokens.Get(tokenKeyPrefix + name)
	return v
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func statusErr(status int, body []byte) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)
	msg := ae.Error.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	var base error
	switch status {
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusGone:
		base = ErrGone
	case http.StatusUnauthorized:
		base = ErrUnauthorized
	case http.StatusConflict:
		base = ErrConflict
	case http.StatusBadRequest:
		base = ErrValidation
	default:
		return fmt.Errorf("unexpected status %d: %s", status, msg)
	}
	return fmt.Errorf("%w: %s", base, msg)
}

// do performs one request/response exchange. Calls are independent; the
// server's state may change between two calls, so every call re-checks
// the response status instead of assuming anything from earlier calls.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(headerAccessToken, token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return statusErr(resp.StatusCode, buf.Bytes())
	}
	if out != nil {
		if err := json.Unmarshal(buf.Bytes(), out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Create registers a new domain. Password may be empty for a public one.
func (c *Client) Create(ctx context.Context, name, password string, durationMs int64) (Domain, error) {
	body := map[string]any{
		"domain":      foldName(name),
		"duration_ms": durationMs,
	}
	if password != "" {
		body["password"] = password
	}
	var d Domain
	if err := c.do(ctx, http.MethodPost, "/v1/domains", "", body, &d); err != nil {
		return Domain{}, err
	}
	return Normalize(d), nil
}

// Get fetches a domain, attaching a cached token when one is live.
func (c *Client) Get(ctx context.Context, name string) (Domain, error) {
	name = foldName(name)
	var d Domain
	if err := c.do(ctx, http.MethodGet, "/v1/domains/"+name, c.cachedToken(name), nil, &d); err != nil {
		return Domain{}, err
	}
	return Normalize(d), nil
}

// Unlock exchanges the password for an access token and caches it keyed
// by domain name until the token's own expiry.
func (c *Client) Unlock(ctx context.Context, name, password string) (Unlock, error) {
	name = foldName(name)
	var u Unlock
	err := c.do(ctx, http.MethodPost, "/v1/domains/"+name+"/unlock", "", map[string]string{"password": password}, &u)
	if err != nil {
		return Unlock{}, err
	}
	c.tokens.Set(tokenKeyPrefix+name, u.Token, time.UnixMilli(u.ExpiresAt))
	return u, nil
}

// Update replaces the domain's content, style, and files wholesale.
func (c *Client) Update(ctx context.Context, name string, p UpdatePayload) (Domain, error) {
	name = foldName(name)
	var d Domain
	if err := c.do(ctx, http.MethodPut, "/v1/domains/"+name, c.cachedToken(name), p, &d); err != nil {
		return Domain{}, err
	}
	return Normalize(d), nil
}

// Delete removes the domain and forgets its cached token.
func (c *Client) Delete(ctx context.Context, name string) error {
	name = foldName(name)
	if err := c.do(ctx, http.MethodDelete, "/v1/domains/"+name, c.cachedToken(name), nil, nil); err != nil {
		return err
	}
	c.tokens.Delete(tokenKeyPrefix + name)
	return nil
}
