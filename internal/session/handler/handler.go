// Package handler exposes the session HTTP surface: whoami, mock sign-in and
// sign-out.
package handler

import (
	"net/http"

	"ticketdesk_backend/internal/access"
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/internal/session"
	"ticketdesk_backend/platform/httpkit"
	"ticketdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// cookieMaxAge keeps the session cookie alive across browser restarts; the
// cache TTLs bound the actual session lifetime.
const cookieMaxAge = 60 * 60 * 24 * 30

// MockSignInRequest authenticates against the mock auth provider.
type MockSignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Handler handles session HTTP requests.
type Handler struct {
	resolver *session.Resolver
	val      *validator.Validator
	secure   bool
}

// New creates a session handler. secure controls the cookie Secure flag.
func New(resolver *session.Resolver, val *validator.Validator, secure bool) *Handler {
	return &Handler{resolver: resolver, val: val, secure: secure}
}

// RegisterRoutes registers the session routes. They sit on the open v1 group:
// whoami must answer for anonymous callers too.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Current)
	rg.POST("/sign-out", h.SignOut)
	rg.POST("/mock/sign-in", h.MockSignIn)
}

// Current reports the resolved actor and the landing path the caller should
// be routed to. Anonymous callers get a null actor, not an error.
func (h *Handler) Current(c *gin.Context) {
	actor := access.ActorFrom(c)

	home := access.HomeRedirect(actor, false)
	payload := gin.H{
		"actor": actorPayload(actor),
		"home":  home.Path,
	}
	httpkit.OK(c, payload)
}

// MockSignIn authenticates against the mock provider and issues a session ID.
func (h *Handler) MockSignIn(c *gin.Context) {
	var req MockSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sid, err := h.resolver.EstablishMock(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	h.setSessionCookie(c, sid)
	actor := h.resolver.Resolve(c.Request.Context(), session.Keys{SessionID: sid})
	httpkit.OK(c, gin.H{
		"session_id": sid,
		"actor":      actorPayload(actor),
		"home":       access.HomeRedirect(actor, false).Path,
	})
}

// SignOut revokes the presented session. Idempotent: signing out an unknown
// session succeeds.
func (h *Handler) SignOut(c *gin.Context) {
	sid := access.SessionIDFrom(c)
	if sid != "" {
		h.resolver.SignOut(c.Request.Context(), sid)
	}
	c.SetCookie(access.SessionCookieName, "", -1, "/", "", h.secure, true)
	httpkit.OK(c, gin.H{"signed_out": true})
}

func (h *Handler) setSessionCookie(c *gin.Context, sid string) {
	c.SetCookie(access.SessionCookieName, sid, cookieMaxAge, "/", "", h.secure, true)
}

func actorPayload(actor *session.Actor) interface{} {
	if actor == nil {
		return nil
	}
	return gin.H{
		"kind":                actor.Kind,
		"id":                  actor.ID,
		"email":               actor.Email,
		"username":            actor.Username,
		"role":                actor.Role,
		"company":             actor.Company,
		"is_customer_manager": actor.IsCustomerManager,
	}
}

// Module mounts the session routes on the open v1 group.
type Module struct {
	handler *Handler
}

// NewModule creates the session module.
func NewModule(resolver *session.Resolver, val *validator.Validator, secure bool) *Module {
	return &Module{handler: New(resolver, val, secure)}
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "session" }

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/session"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
