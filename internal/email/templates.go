package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type ticketCreatedEmailData struct {
	baseEmailData
	TicketID    string
	TicketTitle string
	Company     string
}

type ticketStatusChangedEmailData struct {
	baseEmailData
	TicketID  string
	OldStatus string
	NewStatus string
}

type welcomeEmailData struct {
	baseEmailData
	Username string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
