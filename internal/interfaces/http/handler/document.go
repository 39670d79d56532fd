package handler

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openbiz/backend/internal/application/docmerge"
	"github.com/openbiz/backend/internal/domain/sales"
	"github.com/openbiz/backend/internal/infrastructure/storage"
	"github.com/openbiz/backend/internal/interfaces/http/dto"
)

const downloadURLTTL = 15 * time.Minute

// DocumentMerger runs rebuild batches for DocumentHandler
type DocumentMerger interface {
	Rebuild(ctx context.Context, tenantID uuid.UUID, opts docmerge.Options) (*docmerge.Report, error)
}

// DocumentHandler handles generated document endpoints
type DocumentHandler struct {
	BaseHandler
	merger DocumentMerger
	store  storage.FileStore
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(merger DocumentMerger, store storage.FileStore) *DocumentHandler {
	return &DocumentHandler{merger: merger, store: store}
}

// Merge rebuilds the PDF files of the selected documents and merges them.
// The language defaults to the caller's.
// POST /documents/merge
func (h *DocumentHandler) Merge(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var opts docmerge.Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		h.BindError(c, err)
		return
	}
	if opts.Language == "" {
		opts.Language = actor.Language
	}

	report, err := h.merger.Rebuild(c.Request.Context(), actor.TenantID, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Download sends a stored document of the caller's tenant, or redirects to a
// temporary link when the store can presign.
// GET /documents/file?key=
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	key, err := storage.CleanKey(c.Query("key"))
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !strings.HasPrefix(key, sales.TenantDir(actor.TenantID)+"/") {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "File not found")
		return
	}
	ctx := c.Request.Context()

	if p, ok := h.store.(storage.Presigner); ok {
		exists, err := h.store.Exists(ctx, key)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if !exists {
			h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "File not found")
			return
		}
		url, _, err := p.GenerateDownloadURL(ctx, key, downloadURLTTL)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Redirect(http.StatusFound, url)
		return
	}

	data, err := h.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "File not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
