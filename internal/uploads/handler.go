// Package uploads handles ticket image uploads. Files land in object storage
// when it is configured; otherwise the handler degrades to a placeholder URL
// so ticket creation never blocks on storage availability.
package uploads

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"ticketdesk_backend/internal/adapters/storage"
	"ticketdesk_backend/platform/config"
	"ticketdesk_backend/platform/httpkit"
	"ticketdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Config captures the settings the uploads module needs.
type Config interface {
	config.MinIOConfig
	GetUploadPlaceholderURL() string
}

// Handler handles image upload HTTP requests.
type Handler struct {
	store storage.ObjectStore // nil when object storage is disabled
	cfg   Config
	log   *logger.Logger
}

// NewHandler creates an upload handler. store may be nil when object storage
// is not configured; uploads then resolve to the placeholder URL.
func NewHandler(store storage.ObjectStore, cfg Config, log *logger.Logger) *Handler {
	return &Handler{store: store, cfg: cfg, log: log}
}

// UploadImage accepts a single multipart image file and returns its URL.
func (h *Handler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file field", err.Error())
		return
	}

	if header.Size > h.cfg.GetMinIOMaxFileSize() {
		httpkit.Error(c, http.StatusBadRequest, "file exceeds maximum size",
			fmt.Sprintf("limit is %d bytes", h.cfg.GetMinIOMaxFileSize()))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httpkit.Error(c, http.StatusBadRequest, "only image uploads are supported", nil)
		return
	}

	if h.store == nil {
		h.placeholder(c)
		return
	}

	file, err := header.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable file", err.Error())
		return
	}
	defer file.Close()

	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(header.Filename)))
	bucket := h.cfg.GetMinioBucketTicketImages()

	url, err := h.store.UploadObject(c.Request.Context(), bucket, key, file, header.Size, contentType)
	if err != nil {
		h.log.StoreError("upload_image", key, err)
		h.placeholder(c)
		return
	}

	httpkit.OK(c, gin.H{"url": url, "success": true})
}

// placeholder answers with the configured fallback URL. The response is still
// a 200 so clients can attach the placeholder to the ticket.
func (h *Handler) placeholder(c *gin.Context) {
	httpkit.OK(c, gin.H{"url": h.cfg.GetUploadPlaceholderURL(), "success": false})
}
