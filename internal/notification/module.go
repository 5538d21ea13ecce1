// Package notification provides event handlers for outbound notifications
// (email and SSE pushes) in response to domain events. This module subscribes
// to the event bus and inverts the dependency: domain modules never talk to
// SMTP or connected browsers directly.
package notification

import (
	"context"

	"ticketdesk_backend/internal/access"
	"ticketdesk_backend/internal/email"
	"ticketdesk_backend/internal/events"
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/internal/notification/sse"
	"ticketdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Config provides the settings the notification module needs.
type Config interface {
	GetRootAdminEmail() string
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	cfg    Config
	log    *logger.Logger
	hub    *sse.Hub
}

// New creates a new notification module.
func New(sender email.Sender, cfg Config, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		cfg:    cfg,
		log:    log,
		hub:    sse.New(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// Hub exposes the SSE hub for shutdown handling.
func (m *Module) Hub() *sse.Hub { return m.hub }

// RegisterRoutes mounts the SSE stream on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/notifications/stream", m.hub.Handler(identifySession))
}

// identifySession resolves the connecting actor into an SSE subscription
// scope. Root admins subscribe to every company's events.
func identifySession(c *gin.Context) (sessionID, company string, ok bool) {
	actor := access.ActorFrom(c)
	if actor == nil {
		return "", "", false
	}
	sessionID = access.SessionIDFrom(c)
	if sessionID == "" {
		return "", "", false
	}
	company = actor.Company
	if access.Classify(actor) == access.RoleSuperAdmin {
		company = sse.CompanyAll
	}
	return sessionID, company, true
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SessionRevoked{}.EventName(), m)
	bus.Subscribe(events.UserSignedUp{}.EventName(), m)
	bus.Subscribe(events.TicketCreated{}.EventName(), m)
	bus.Subscribe(events.TicketStatusChanged{}.EventName(), m)
	bus.Subscribe(events.TicketMessageAdded{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SessionRevoked:
		return m.handleSessionRevoked(ctx, e)
	case events.UserSignedUp:
		return m.handleUserSignedUp(ctx, e)
	case events.TicketCreated:
		return m.handleTicketCreated(ctx, e)
	case events.TicketStatusChanged:
		return m.handleTicketStatusChanged(ctx, e)
	case events.TicketMessageAdded:
		return m.handleTicketMessageAdded(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// handleSessionRevoked tells any open streams for the session that it is
// gone, so browser tabs sharing the session drop their cached identity.
func (m *Module) handleSessionRevoked(_ context.Context, e events.SessionRevoked) error {
	m.hub.Publish(e.SessionID, sse.Event{
		Type:    sse.EventSessionRevoked,
		Message: "session signed out",
	})
	return nil
}

func (m *Module) handleUserSignedUp(ctx context.Context, e events.UserSignedUp) error {
	if err := m.sender.SendWelcomeEmail(ctx, e.Email, e.Email); err != nil {
		m.log.Error("failed to send welcome email", "userId", e.UserID, "email", e.Email, "error", err)
		return err
	}
	m.log.Info("welcome email sent", "userId", e.UserID, "email", e.Email)
	return nil
}

func (m *Module) handleTicketCreated(ctx context.Context, e events.TicketCreated) error {
	m.hub.PublishToCompany(e.Company, sse.Event{
		Type:     sse.EventTicketCreated,
		TicketID: e.TicketID,
		Data: map[string]any{
			"title":   e.Title,
			"company": e.Company,
		},
	})

	notifyAddr := m.cfg.GetRootAdminEmail()
	if notifyAddr == "" {
		return nil
	}
	if err := m.sender.SendTicketCreatedEmail(ctx, notifyAddr, e.TicketID, e.Title, e.Company); err != nil {
		m.log.Error("failed to send ticket created email", "ticketId", e.TicketID, "error", err)
		return err
	}
	m.log.Info("ticket created email sent", "ticketId", e.TicketID, "company", e.Company)
	return nil
}

func (m *Module) handleTicketStatusChanged(ctx context.Context, e events.TicketStatusChanged) error {
	m.hub.PublishToCompany(e.Company, sse.Event{
		Type:     sse.EventTicketStatusChanged,
		TicketID: e.TicketID,
		Data: map[string]any{
			"oldStatus": e.OldStatus,
			"newStatus": e.NewStatus,
			"changedBy": e.ChangedBy,
		},
	})

	if e.UserEmail == "" {
		return nil
	}
	if err := m.sender.SendTicketStatusChangedEmail(ctx, e.UserEmail, e.TicketID, e.OldStatus, e.NewStatus); err != nil {
		m.log.Error("failed to send ticket status email", "ticketId", e.TicketID, "email", e.UserEmail, "error", err)
		return err
	}
	m.log.Info("ticket status email sent", "ticketId", e.TicketID, "email", e.UserEmail)
	return nil
}

// handleTicketMessageAdded pushes conversation updates. Internal notes are
// not pushed to company-scoped sessions.
func (m *Module) handleTicketMessageAdded(_ context.Context, e events.TicketMessageAdded) error {
	if e.IsInternal {
		return nil
	}
	m.hub.PublishToCompany(e.Company, sse.Event{
		Type:     sse.EventTicketMessageAdded,
		TicketID: e.TicketID,
		Data: map[string]any{
			"sender":     e.Sender,
			"senderType": e.SenderType,
		},
	})
	return nil
}

// Compile-time checks
var _ apphttp.Module = (*Module)(nil)
var _ events.Handler = (*Module)(nil)
