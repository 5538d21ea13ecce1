package uploads

import (
	"ticketdesk_backend/internal/adapters/storage"
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/platform/logger"
)

// Module represents the uploads domain module.
type Module struct {
	handler *Handler
}

// NewModule creates the uploads module. store may be nil when object storage
// is not configured.
func NewModule(store storage.ObjectStore, cfg Config, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(store, cfg, log)}
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "uploads" }

// RegisterRoutes registers the upload routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("/uploads")
	rg.POST("/image", m.handler.UploadImage)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
