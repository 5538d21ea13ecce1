// Package tickets provides the support-ticket domain module: the ticket
// entities and key-value store live in store/, visibility and mutation rules
// in service/, and the HTTP surface in handler/ and transport/.
package tickets

import (
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/internal/tickets/handler"
	"ticketdesk_backend/internal/tickets/service"
	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/platform/logger"
	"ticketdesk_backend/platform/validator"
)

// Module represents the tickets domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new tickets module with all dependencies wired. The
// store is chosen by the caller (memory or Redis, exactly one per deployment).
func NewModule(st store.Store, seed service.SeedSource, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.NewService(st, seed, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "tickets"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes. Every route requires an
// authenticated actor; finer role checks happen in the service layer.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	tickets := ctx.Protected.Group("/tickets")
	m.handler.RegisterRoutes(tickets)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
