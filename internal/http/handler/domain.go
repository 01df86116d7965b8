package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/sendy/internal/domain"
	"github.com/roguepikachu/sendy/internal/service"
	"github.com/roguepikachu/sendy/pkg/logger"
)

// HeaderAccessToken carries the bearer token for locked domains.
const HeaderAccessToken = "X-Access-Token"

// DomainService defines the handler's dependency contract.
type DomainService interface {
	Create(ctx context.Context, name, pass string, durationMs int64) (domain.Public, error)
	Get(ctx context.Context, name, token string) (domain.Public, error)
	Unlock(ctx context.Context, name, pass string) (domain.AccessToken, error)
	Update(ctx context.Context, name, token string, p service.UpdatePayload) (domain.Public, error)
	Delete(ctx context.Context, name, token string) error
}

// Handler handles HTTP requests for domains.
type Handler struct {
	svc DomainService
}

// NewHandler constructs a Handler with the given DomainService.
func NewHandler(svc DomainService) *Handler {
	return &Handler{svc: svc}
}

// foldName is the presentation-layer case folding; the service only ever
// sees trimmed, lowercased identifiers.
func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

// writeDomainError maps service errors onto the wire taxonomy.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrTooManyFiles):
		c.JSON(http.StatusBadRequest, errorBody("validation_error", err.Error()))
	case errors.Is(err, service.ErrDomainExists):
		c.JSON(http.StatusConflict, errorBody("conflict", "domain already exists"))
	case errors.Is(err, service.ErrDomainNotFound):
		c.JSON(http.StatusNotFound, errorBody("not_found", "domain not found"))
	case errors.Is(err, service.ErrDomainExpired):
		c.JSON(http.StatusGone, errorBody("gone", "domain expired"))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "access denied"))
	default:
		logger.Error(c.Request.Context(), "domain operation failed: %s", err.Error())
		c.JSON(http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// Create handles the creation of a new domain.
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.CreateDomainRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(ctx, "failed to bind JSON: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "bad_request", "message": "invalid request", "details": err.Error()}})
		return
	}
	var pass string
	if req.Password != nil {
		pass = *req.Password
	}
	pub, err := h.svc.Create(ctx, foldName(req.Domain), pass, req.DurationMs)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	logger.With(ctx, map[string]any{"domain": pub.Domain, "locked": pub.IsLocked}).Info("domain created")
	c.JSON(http.StatusCreated, pub)
}

// Get handles fetching a domain by name, authorized by token when locked.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	name := foldName(c.Param("domain"))
	token := c.GetHeader(HeaderAccessToken)
	pub, err := h.svc.Get(ctx, name, token)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	logger.With(ctx, map[string]any{"domain": name, "locked": pub.IsLocked}).Debug("domain retrieved")
	c.JSON(http.StatusOK, pub)
}

// Unlock handles password verification and token minting.
func (h *Handler) Unlock(c *gin.Context) {
	ctx := c.Request.Context()
	name := foldName(c.Param("domain"))
	var req domain.UnlockRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(ctx, "failed to bind JSON: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "bad_request", "message": "invalid request", "details": err.Error()}})
		return
	}
	t, err := h.svc.Unlock(ctx, name, req.Password)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.UnlockResponseDTO{
		Token:     t.Value,
		ExpiresAt: t.ExpiresAt.UnixMilli(),
	})
}

// Update handles a full replace of content, style, and files.
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	name := foldName(c.Param("domain"))
	token := c.GetHeader(HeaderAccessToken)
	var req domain.UpdateDomainRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(ctx, "failed to bind JSON: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "bad_request", "message": "invalid request", "details": err.Error()}})
		return
	}
	files := make([]domain.FileMeta, 0, len(req.Files))
	for _, f := range req.Files {
		uploadedAt := time.UnixMilli(f.UploadedAt).UTC()
		if f.UploadedAt == 0 {
			uploadedAt = time.Now().UTC()
		}
		files = append(files, domain.FileMeta{
			ID:         f.ID,
			Name:       f.Name,
			Size:       f.Size,
			Type:       f.Type,
			URL:        f.URL,
			UploadedAt: uploadedAt,
		})
	}
	pub, err := h.svc.Update(ctx, name, token, service.UpdatePayload{
		Content: req.Content,
		Meta:    req.Meta,
		Files:   files,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	logger.With(ctx, map[string]any{"domain": name, "files": len(pub.Files)}).Info("domain updated")
	c.JSON(http.StatusOK, pub)
}

// Delete removes a domain and its tokens.
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	name := foldName(c.Param("domain"))
	token := c.GetHeader(HeaderAccessToken)
	if err := h.svc.Delete(ctx, name, token); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
