package handler

import (
	"ticketdesk_backend/internal/accounts/repository"
	"ticketdesk_backend/internal/accounts/service"
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/internal/session"
	"ticketdesk_backend/platform/logger"
	"ticketdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the accounts domain module.
type Module struct {
	handler *Handler
	service *service.Service
}

// NewModule creates a new accounts module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, resolver *session.Resolver, val *validator.Validator, log *logger.Logger, secureCookies bool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resolver, log)
	return &Module{
		handler: New(svc, val, secureCookies),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "accounts" }

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes registers the module's routes: customer CRUD under the
// root-admin group, user management under the admin area, and sign-in on the
// open group behind the auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.SuperAdmin, ctx.Admin)

	auth := ctx.V1.Group("/auth")
	auth.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterAuthRoutes(auth)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
