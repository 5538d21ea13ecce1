// Package service implements ticket visibility and mutation on top of the
// key-value ticket store.
package service

import (
	"context"
	"time"

	"ticketdesk_backend/internal/access"
	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/internal/session"
	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/platform/apperr"
	"ticketdesk_backend/platform/logger"
	"ticketdesk_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SeedSource supplies the secondary ticket dataset consulted only when the
// primary store holds no tickets for a company.
type SeedSource func() []store.Ticket

// Service loads and mutates tickets. Reads always recompute visibility from
// the store; there is no cross-call caching. Writes are last-write-wins.
type Service struct {
	store store.Store
	key   string
	seed  SeedSource
	bus   events.Bus
	log   *logger.Logger
}

// NewService creates the ticket service. seed may be nil to disable the
// secondary dataset.
func NewService(st store.Store, seed SeedSource, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store: st,
		key:   store.DefaultKey,
		seed:  seed,
		bus:   bus,
		log:   log,
	}
}

// CreateInput is the minimum data to file a ticket. The service fills in the
// id, creation timestamp, initial status and the first history entry.
type CreateInput struct {
	Title       string
	Description string
	Company     string
	Image       string
	UserEmail   string
}

// LoadTickets returns the tickets visible to actor.
//
// Super admins see the full set. Customers and regular users see their
// company's tickets; an actor with no resolvable company sees an empty list.
// Any other role sees nothing. The primary store and the seed source are
// loaded concurrently; the seed result is used only when the primary holds
// zero tickets for the actor's company.
func (s *Service) LoadTickets(ctx context.Context, actor *session.Actor) ([]store.Ticket, error) {
	switch access.Classify(actor) {
	case access.RoleSuperAdmin:
		return s.store.Get(ctx, s.key)

	case access.RoleCustomer, access.RoleCustomerManager, access.RoleUser:
		company := actor.Company
		if company == "" {
			return []store.Ticket{}, nil
		}
		return s.loadForCompany(ctx, company)

	default:
		return []store.Ticket{}, nil
	}
}

func (s *Service) loadForCompany(ctx context.Context, company string) ([]store.Ticket, error) {
	var primary, secondary []store.Ticket

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.store.Get(gctx, s.key)
		if err != nil {
			return err
		}
		primary = filterByCompany(list, company)
		return nil
	})
	g.Go(func() error {
		if s.seed == nil {
			return nil
		}
		secondary = filterByCompany(s.seed(), company)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(primary) > 0 {
		return primary, nil
	}
	return secondary, nil
}

func filterByCompany(list []store.Ticket, company string) []store.Ticket {
	out := make([]store.Ticket, 0, len(list))
	for _, t := range list {
		if t.Company == company {
			out = append(out, t)
		}
	}
	return out
}

// Create files a new ticket and publishes tickets.created.
func (s *Service) Create(ctx context.Context, actor *session.Actor, in CreateInput) (*store.Ticket, error) {
	if !isKnownRole(actor) {
		return nil, apperr.Forbidden("not allowed to create tickets")
	}

	now := time.Now().UTC()
	userEmail := in.UserEmail
	if userEmail == "" {
		userEmail = actor.Identifier()
	}

	ticket := store.Ticket{
		ID:          uuid.NewString(),
		Title:       sanitize.Text(in.Title),
		Description: sanitize.Text(in.Description),
		Company:     in.Company,
		Status:      store.StatusOpen,
		Image:       in.Image,
		CreatedAt:   now,
		UserEmail:   userEmail,
		History: []store.HistoryEntry{
			{
				ID:        uuid.NewString(),
				Action:    store.ActionCreated,
				Status:    store.StatusOpen,
				Timestamp: now,
				User:      actor.Identifier(),
			},
		},
	}

	list, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	list = append(list, ticket)
	if err := s.store.Set(ctx, s.key, list); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.TicketCreated{
		BaseEvent: events.NewBaseEvent(),
		TicketID:  ticket.ID,
		Title:     ticket.Title,
		Company:   ticket.Company,
		UserEmail: ticket.UserEmail,
	})

	s.log.Info("ticket created", "ticket_id", ticket.ID, "company", ticket.Company)
	out := ticket.Clone()
	return &out, nil
}

// UpdateStatus sets a ticket's status and appends a status_changed history
// entry stamped with the acting actor. Status transitions are unordered; any
// status may move to any other.
func (s *Service) UpdateStatus(ctx context.Context, actor *session.Actor, id string, status store.Status) (*store.Ticket, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown ticket status")
	}

	return s.mutate(ctx, id, func(t *store.Ticket) error {
		old := t.Status
		t.Status = status
		t.History = append(t.History, store.HistoryEntry{
			ID:        uuid.NewString(),
			Action:    store.ActionStatusChanged,
			Status:    status,
			Timestamp: time.Now().UTC(),
			User:      actor.Identifier(),
		})

		s.bus.Publish(ctx, events.TicketStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			TicketID:  t.ID,
			Company:   t.Company,
			OldStatus: string(old),
			NewStatus: string(status),
			ChangedBy: actor.Identifier(),
			UserEmail: t.UserEmail,
		})
		return nil
	})
}

// Deactivate marks an open ticket as deactivated and appends a history entry.
// Tickets that are not open are left untouched, with no history written.
// Only customer actors may toggle deactivation; the guard layer checks this
// too, but the rule is enforced here as well so no future caller can bypass it.
func (s *Service) Deactivate(ctx context.Context, actor *session.Actor, id string) (*store.Ticket, error) {
	if access.Classify(actor) != access.RoleCustomer {
		return nil, apperr.Forbidden("only customers may deactivate tickets")
	}

	return s.mutate(ctx, id, func(t *store.Ticket) error {
		if !t.CanDeactivate() {
			return nil
		}
		t.IsDeactivated = true
		t.History = append(t.History, store.HistoryEntry{
			ID:        uuid.NewString(),
			Action:    store.ActionDeactivated,
			Status:    t.Status,
			Timestamp: time.Now().UTC(),
			User:      actor.Identifier(),
		})
		return nil
	})
}

// Activate reverses a deactivation. The same open-only rule applies.
func (s *Service) Activate(ctx context.Context, actor *session.Actor, id string) (*store.Ticket, error) {
	if access.Classify(actor) != access.RoleCustomer {
		return nil, apperr.Forbidden("only customers may activate tickets")
	}

	return s.mutate(ctx, id, func(t *store.Ticket) error {
		if !t.CanDeactivate() {
			return nil
		}
		t.IsDeactivated = false
		t.History = append(t.History, store.HistoryEntry{
			ID:        uuid.NewString(),
			Action:    store.ActionActivated,
			Status:    t.Status,
			Timestamp: time.Now().UTC(),
			User:      actor.Identifier(),
		})
		return nil
	})
}

// MessageInput is a conversation entry to append.
type MessageInput struct {
	Content     string
	SenderType  store.SenderType
	Attachments []string
	IsInternal  bool
}

// AddMessage appends a conversation message. Messages never produce history
// entries and existing messages are never mutated.
func (s *Service) AddMessage(ctx context.Context, actor *session.Actor, id string, in MessageInput) (*store.Ticket, error) {
	if !isKnownRole(actor) {
		return nil, apperr.Forbidden("not allowed to post messages")
	}
	senderType := in.SenderType
	if senderType == "" {
		senderType = defaultSenderType(actor)
	}
	if !senderType.Valid() {
		return nil, apperr.Validation("unknown sender type")
	}

	return s.mutate(ctx, id, func(t *store.Ticket) error {
		msg := store.Message{
			ID:          uuid.NewString(),
			Sender:      actor.Identifier(),
			SenderType:  senderType,
			Content:     sanitize.Text(in.Content),
			Timestamp:   time.Now().UTC(),
			Attachments: in.Attachments,
			IsInternal:  in.IsInternal,
		}
		t.Messages = append(t.Messages, msg)

		s.bus.Publish(ctx, events.TicketMessageAdded{
			BaseEvent:  events.NewBaseEvent(),
			TicketID:   t.ID,
			Company:    t.Company,
			Sender:     msg.Sender,
			SenderType: string(msg.SenderType),
			IsInternal: msg.IsInternal,
		})
		return nil
	})
}

// mutate loads the list, applies fn to the ticket with the given id, and
// writes the whole list back. Last write wins; there is no conflict
// detection between concurrent mutations.
func (s *Service) mutate(ctx context.Context, id string, fn func(*store.Ticket) error) (*store.Ticket, error) {
	list, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperr.NotFound("ticket not found")
	}

	if err := fn(&list[idx]); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, s.key, list); err != nil {
		return nil, err
	}

	out := list[idx].Clone()
	return &out, nil
}

func isKnownRole(actor *session.Actor) bool {
	switch access.Classify(actor) {
	case access.RoleSuperAdmin, access.RoleCustomer, access.RoleCustomerManager, access.RoleUser:
		return true
	}
	return false
}

func defaultSenderType(actor *session.Actor) store.SenderType {
	switch access.Classify(actor) {
	case access.RoleSuperAdmin:
		return store.SenderAdmin
	case access.RoleCustomerManager:
		return store.SenderCustomerManager
	default:
		return store.SenderCustomer
	}
}
