package notification

import (
	"context"
	"testing"

	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/platform/logger"
)

type testNotificationConfig struct {
	adminEmail string
}

func (c testNotificationConfig) GetRootAdminEmail() string { return c.adminEmail }

type testSender struct {
	ticketCreatedCalls int
	statusChangedCalls int
	welcomeCalls       int
	lastRecipient      string
}

func (s *testSender) SendTicketCreatedEmail(_ context.Context, toEmail, _, _, _ string) error {
	s.ticketCreatedCalls++
	s.lastRecipient = toEmail
	return nil
}

func (s *testSender) SendTicketStatusChangedEmail(_ context.Context, toEmail, _, _, _ string) error {
	s.statusChangedCalls++
	s.lastRecipient = toEmail
	return nil
}

func (s *testSender) SendWelcomeEmail(_ context.Context, toEmail, _ string) error {
	s.welcomeCalls++
	s.lastRecipient = toEmail
	return nil
}

func newTestModule(adminEmail string) (*Module, *testSender) {
	sender := &testSender{}
	m := New(sender, testNotificationConfig{adminEmail: adminEmail}, logger.New("development"))
	return m, sender
}

func TestHandleTicketCreatedNotifiesRootAdmin(t *testing.T) {
	m, sender := newTestModule("admin@example.com")

	err := m.Handle(context.Background(), events.TicketCreated{
		BaseEvent: events.NewBaseEvent(),
		TicketID:  "t-1",
		Title:     "Printer on fire",
		Company:   "Nike",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.ticketCreatedCalls != 1 {
		t.Fatalf("expected 1 ticket created email, got %d", sender.ticketCreatedCalls)
	}
	if sender.lastRecipient != "admin@example.com" {
		t.Fatalf("expected email to root admin, got %q", sender.lastRecipient)
	}
}

func TestHandleTicketCreatedSkipsEmailWithoutAdminAddress(t *testing.T) {
	m, sender := newTestModule("")

	err := m.Handle(context.Background(), events.TicketCreated{
		BaseEvent: events.NewBaseEvent(),
		TicketID:  "t-1",
		Title:     "Printer on fire",
		Company:   "Nike",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.ticketCreatedCalls != 0 {
		t.Fatalf("expected no email without admin address, got %d", sender.ticketCreatedCalls)
	}
}

func TestHandleTicketStatusChangedEmailsTicketOwner(t *testing.T) {
	m, sender := newTestModule("admin@example.com")

	err := m.Handle(context.Background(), events.TicketStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		TicketID:  "t-1",
		Company:   "Nike",
		OldStatus: "open",
		NewStatus: "done",
		ChangedBy: "agent@example.com",
		UserEmail: "owner@nike.com",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.statusChangedCalls != 1 {
		t.Fatalf("expected 1 status email, got %d", sender.statusChangedCalls)
	}
	if sender.lastRecipient != "owner@nike.com" {
		t.Fatalf("expected email to ticket owner, got %q", sender.lastRecipient)
	}
}

func TestHandleTicketStatusChangedSkipsEmailWithoutOwner(t *testing.T) {
	m, sender := newTestModule("admin@example.com")

	err := m.Handle(context.Background(), events.TicketStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		TicketID:  "t-1",
		Company:   "Nike",
		OldStatus: "open",
		NewStatus: "in progress",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.statusChangedCalls != 0 {
		t.Fatalf("expected no status email without owner address, got %d", sender.statusChangedCalls)
	}
}

func TestHandleUserSignedUpSendsWelcomeEmail(t *testing.T) {
	m, sender := newTestModule("admin@example.com")

	err := m.Handle(context.Background(), events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    "u-1",
		Email:     "new@example.com",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.welcomeCalls != 1 {
		t.Fatalf("expected 1 welcome email, got %d", sender.welcomeCalls)
	}
	if sender.lastRecipient != "new@example.com" {
		t.Fatalf("expected welcome email to new user, got %q", sender.lastRecipient)
	}
}

func TestHandleInternalMessageSendsNothing(t *testing.T) {
	m, sender := newTestModule("admin@example.com")

	err := m.Handle(context.Background(), events.TicketMessageAdded{
		BaseEvent:  events.NewBaseEvent(),
		TicketID:   "t-1",
		Company:    "Nike",
		Sender:     "agent@example.com",
		SenderType: "admin",
		IsInternal: true,
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.ticketCreatedCalls+sender.statusChangedCalls+sender.welcomeCalls != 0 {
		t.Fatal("expected no email for internal messages")
	}
}
