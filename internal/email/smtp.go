package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"ticketdesk_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender from application config.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendTicketCreatedEmail(ctx context.Context, toEmail, ticketID, title, company string) error {
	subject := fmt.Sprintf(subjectTicketCreatedFmt, title)
	content, err := renderEmailTemplate("ticket_created.html", ticketCreatedEmailData{
		baseEmailData: baseEmailData{
			Title:   "New support ticket",
			Heading: "A new ticket was filed",
		},
		TicketID:    ticketID,
		TicketTitle: title,
		Company:     company,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendTicketStatusChangedEmail(ctx context.Context, toEmail, ticketID, oldStatus, newStatus string) error {
	subject := fmt.Sprintf(subjectTicketStatusChangedFmt, ticketID, newStatus)
	content, err := renderEmailTemplate("ticket_status_changed.html", ticketStatusChangedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Ticket status updated",
			Heading: "Your ticket status changed",
		},
		TicketID:  ticketID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, toEmail, username string) error {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Welcome",
			Heading: "Welcome to the support portal",
		},
		Username: username,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWelcome, content)
}

var _ Sender = (*SMTPSender)(nil)
