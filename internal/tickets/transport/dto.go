// Package transport defines request DTOs for the tickets HTTP API.
// Responses are the domain structs themselves; only inbound payloads get a
// dedicated shape with validation tags.
package transport

// CreateTicketRequest files a new ticket.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=3,max=5000"`
	Company     string `json:"company" validate:"required,max=100"`
	Image       string `json:"image,omitempty" validate:"omitempty,url"`
	UserEmail   string `json:"user_email,omitempty" validate:"omitempty,email"`
}

// UpdateStatusRequest moves a ticket to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open 'in progress' done"`
}

// AddMessageRequest appends a conversation entry.
type AddMessageRequest struct {
	Content     string   `json:"content" validate:"required,min=1,max=5000"`
	SenderType  string   `json:"sender_type,omitempty" validate:"omitempty,oneof=customer customer_manager admin"`
	Attachments []string `json:"attachments,omitempty" validate:"omitempty,dive,url"`
	IsInternal  bool     `json:"is_internal,omitempty"`
}
