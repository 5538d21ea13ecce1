// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"ticketdesk_backend/platform/events"
	"ticketdesk_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Session Domain Events
// =============================================================================

// SessionRevoked is published on sign-out so other consumers of the same
// session observe the logout without polling.
type SessionRevoked struct {
	BaseEvent
	SessionID string `json:"sessionId"`
	ActorID   string `json:"actorId,omitempty"`
}

func (e SessionRevoked) EventName() string { return "session.revoked" }

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new backend user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Ticket Domain Events
// =============================================================================

// TicketCreated is published when a new ticket is filed.
type TicketCreated struct {
	BaseEvent
	TicketID  string `json:"ticketId"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	UserEmail string `json:"userEmail"`
}

func (e TicketCreated) EventName() string { return "tickets.created" }

// TicketStatusChanged is published when a ticket's status changes.
type TicketStatusChanged struct {
	BaseEvent
	TicketID  string `json:"ticketId"`
	Company   string `json:"company"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
	ChangedBy string `json:"changedBy"`
	UserEmail string `json:"userEmail,omitempty"`
}

func (e TicketStatusChanged) EventName() string { return "tickets.status_changed" }

// TicketMessageAdded is published when a conversation entry is appended.
type TicketMessageAdded struct {
	BaseEvent
	TicketID   string `json:"ticketId"`
	Company    string `json:"company"`
	Sender     string `json:"sender"`
	SenderType string `json:"senderType"`
	IsInternal bool   `json:"isInternal"`
}

func (e TicketMessageAdded) EventName() string { return "tickets.message_added" }
