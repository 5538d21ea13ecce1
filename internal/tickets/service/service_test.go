package service

import (
	"context"
	"testing"

	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/internal/session"
	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/platform/apperr"
	"ticketdesk_backend/platform/logger"
)

func newTestService(t *testing.T, seeded []store.Ticket, seed SeedSource) *Service {
	t.Helper()
	log := logger.New("development")
	st := store.NewSeededMemoryStore(seeded)
	return NewService(st, seed, events.NewInMemoryBus(log), log)
}

func superAdmin() *session.Actor {
	return &session.Actor{Kind: session.ActorMock, Email: "admin", Role: session.RoleSuperAdmin}
}

func customer(company string) *session.Actor {
	return &session.Actor{Kind: session.ActorCustomer, Username: "acct", Role: session.RoleCustomer, Company: company}
}

func regularUser(company string) *session.Actor {
	return &session.Actor{Kind: session.ActorRegularUser, Email: "user@example.com", Role: session.RoleUser, Company: company}
}

func sampleTickets() []store.Ticket {
	return []store.Ticket{
		{ID: "t1", Title: "Nike ticket", Company: "Nike", Status: store.StatusOpen, UserEmail: "nike@example.com"},
		{ID: "t2", Title: "Adidas ticket", Company: "Adidas", Status: store.StatusOpen, UserEmail: "adidas@example.com"},
		{ID: "t3", Title: "Nike done", Company: "Nike", Status: store.StatusDone, UserEmail: "nike@example.com"},
	}
}

func TestLoadTicketsSuperAdminSeesAll(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	got, err := svc.LoadTickets(context.Background(), superAdmin())
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected full set of 3 tickets, got %d", len(got))
	}
}

func TestLoadTicketsCompanyScope(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	got, err := svc.LoadTickets(context.Background(), regularUser("Nike"))
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 Nike tickets, got %d", len(got))
	}
	for _, tk := range got {
		if tk.Company != "Nike" {
			t.Errorf("ticket %s leaked from company %q", tk.ID, tk.Company)
		}
	}
}

func TestLoadTicketsEmptyCompanyReturnsNothing(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	got, err := svc.LoadTickets(context.Background(), regularUser(""))
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list for actor without a company, got %d tickets", len(got))
	}
}

func TestLoadTicketsUnknownRoleReturnsNothing(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	actor := &session.Actor{Kind: session.ActorBackend, Email: "x@example.com", Role: "auditor", Company: "Nike"}
	got, err := svc.LoadTickets(context.Background(), actor)
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list for unrecognized role, got %d tickets", len(got))
	}
}

func TestLoadTicketsSeedFallbackOnlyWhenPrimaryEmpty(t *testing.T) {
	seed := func() []store.Ticket {
		return []store.Ticket{
			{ID: "s1", Company: "Nike", Status: store.StatusOpen},
			{ID: "s2", Company: "Adidas", Status: store.StatusOpen},
		}
	}

	// Primary has Nike tickets: seed must not be merged in.
	svc := newTestService(t, sampleTickets(), seed)
	got, err := svc.LoadTickets(context.Background(), customer("Nike"))
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	for _, tk := range got {
		if tk.ID == "s1" {
			t.Fatal("seed ticket returned although primary store had results")
		}
	}

	// Primary empty for the company: seed is the fallback.
	svc = newTestService(t, nil, seed)
	got, err = svc.LoadTickets(context.Background(), customer("Adidas"))
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("expected seed fallback [s2], got %+v", got)
	}
}

func TestCreateAssignsIDStatusAndHistory(t *testing.T) {
	svc := newTestService(t, nil, nil)

	created, err := svc.Create(context.Background(), customer("Adidas"), CreateInput{
		Title:       "X",
		Description: "Y",
		Company:     "Adidas",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
	if created.Status != store.StatusOpen {
		t.Errorf("expected initial status open, got %q", created.Status)
	}
	if len(created.History) != 1 || created.History[0].Action != store.ActionCreated {
		t.Fatalf("expected a single created history entry, got %+v", created.History)
	}

	got, err := svc.LoadTickets(context.Background(), customer("Adidas"))
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("created ticket not visible via company scope: %+v", got)
	}
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	updated, err := svc.UpdateStatus(context.Background(), superAdmin(), "t1", store.StatusDone)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != store.StatusDone {
		t.Errorf("expected status done, got %q", updated.Status)
	}
	last := updated.History[len(updated.History)-1]
	if last.Action != store.ActionStatusChanged || last.Status != store.StatusDone {
		t.Errorf("unexpected last history entry: %+v", last)
	}
	if last.User != "admin" {
		t.Errorf("history entry not stamped with acting actor: %q", last.User)
	}
}

func TestUpdateStatusUnknownTicket(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	_, err := svc.UpdateStatus(context.Background(), superAdmin(), "missing", store.StatusDone)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	_, err := svc.UpdateStatus(context.Background(), superAdmin(), "t1", store.Status("archived"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeactivateRequiresCustomer(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	_, err := svc.Deactivate(context.Background(), regularUser("Nike"), "t1")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for non-customer, got %v", err)
	}
}

func TestDeactivateNonOpenTicketIsNoOp(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	got, err := svc.Deactivate(context.Background(), customer("Nike"), "t3")
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if got.IsDeactivated {
		t.Error("deactivation applied to a non-open ticket")
	}
	if len(got.History) != 0 {
		t.Errorf("no-op deactivation must append no history, got %d entries", len(got.History))
	}
}

func TestActivateThenDeactivateAppendsTwoEntries(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)
	actor := customer("Nike")

	if _, err := svc.Activate(context.Background(), actor, "t1"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	got, err := svc.Deactivate(context.Background(), actor, "t1")
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	if !got.IsDeactivated {
		t.Error("expected ticket to end deactivated")
	}
	if len(got.History) != 2 {
		t.Fatalf("expected exactly 2 history entries, got %d", len(got.History))
	}
	if got.History[0].Action != store.ActionActivated || got.History[1].Action != store.ActionDeactivated {
		t.Errorf("history entries out of call order: %+v", got.History)
	}
}

func TestAddMessageAppendsWithoutHistory(t *testing.T) {
	svc := newTestService(t, sampleTickets(), nil)

	got, err := svc.AddMessage(context.Background(), regularUser("Nike"), "t1", MessageInput{
		Content: "any update on this?",
	})
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got.Messages))
	}
	msg := got.Messages[0]
	if msg.Sender != "user@example.com" {
		t.Errorf("message not stamped with sender: %q", msg.Sender)
	}
	if msg.SenderType != store.SenderCustomer {
		t.Errorf("unexpected default sender type %q", msg.SenderType)
	}
	if len(got.History) != 0 {
		t.Errorf("messages must not produce history entries, got %d", len(got.History))
	}

	// A second message appends; the first is untouched.
	got, err = svc.AddMessage(context.Background(), superAdmin(), "t1", MessageInput{Content: "looking into it"})
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Content != "any update on this?" {
		t.Error("existing message mutated by append")
	}
	if got.Messages[1].SenderType != store.SenderAdmin {
		t.Errorf("expected admin sender type, got %q", got.Messages[1].SenderType)
	}
}
