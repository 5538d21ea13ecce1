// Package email delivers outbound notification mail for ticket activity.
package email

import "context"

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string
	MIMEType string
}

// Sender delivers ticket notification emails.
type Sender interface {
	SendTicketCreatedEmail(ctx context.Context, toEmail, ticketID, title, company string) error
	SendTicketStatusChangedEmail(ctx context.Context, toEmail, ticketID, oldStatus, newStatus string) error
	SendWelcomeEmail(ctx context.Context, toEmail, username string) error
}

// NoopSender discards all email. Used when SMTP is not configured so the
// notification module never has to nil-check its sender.
type NoopSender struct{}

func (NoopSender) SendTicketCreatedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendTicketStatusChangedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendWelcomeEmail(context.Context, string, string) error { return nil }

var _ Sender = NoopSender{}
