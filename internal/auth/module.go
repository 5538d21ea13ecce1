// Package auth provides the backend auth provider module. It is mounted only
// when a real JWT secret is configured; otherwise mock auth is authoritative
// and these routes do not exist.
package auth

import (
	"ticketdesk_backend/internal/auth/handler"
	"ticketdesk_backend/internal/auth/repository"
	"ticketdesk_backend/internal/auth/service"
	"ticketdesk_backend/internal/events"
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/platform/config"
	"ticketdesk_backend/platform/logger"
	"ticketdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the backend auth domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new backend auth module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "auth" }

// Service returns the service layer for external use (scheduler jobs).
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes registers the backend auth routes behind the stricter auth
// rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.V1.Group("/auth/backend")
	rg.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(rg)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
