package store

import "time"

// Status is the workflow state of a ticket. Transitions are unordered: any
// status may move to any other status.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// History entry actions.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
	ActionDeactivated   = "deactivated"
	ActionActivated     = "activated"
)

// SenderType identifies who authored a conversation message.
type SenderType string

const (
	SenderCustomer        SenderType = "customer"
	SenderCustomerManager SenderType = "customer_manager"
	SenderAdmin           SenderType = "admin"
)

// Valid reports whether t is a known sender type.
func (t SenderType) Valid() bool {
	switch t {
	case SenderCustomer, SenderCustomerManager, SenderAdmin:
		return true
	}
	return false
}

// HistoryEntry is an append-only audit record. Entries are never mutated or
// deleted once written.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Comment   string    `json:"comment,omitempty"`
}

// Message is an append-only conversation entry.
type Message struct {
	ID          string     `json:"id"`
	Sender      string     `json:"sender"`
	SenderType  SenderType `json:"sender_type"`
	Content     string     `json:"content"`
	Timestamp   time.Time  `json:"timestamp"`
	Attachments []string   `json:"attachments,omitempty"`
	IsInternal  bool       `json:"is_internal,omitempty"`
}

// Ticket is the unit of support work tracked by the system.
type Ticket struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Company       string         `json:"company"`
	Status        Status         `json:"status"`
	Image         string         `json:"image,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UserEmail     string         `json:"user_email"`
	History       []HistoryEntry `json:"history,omitempty"`
	Messages      []Message      `json:"messages,omitempty"`
	IsDeactivated bool           `json:"is_deactivated,omitempty"`
}

// CanDeactivate reports whether the deactivation toggle is currently allowed:
// only open tickets may be deactivated or reactivated.
func (t *Ticket) CanDeactivate() bool {
	return t.Status == StatusOpen
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (t Ticket) Clone() Ticket {
	out := t
	if t.History != nil {
		out.History = make([]HistoryEntry, len(t.History))
		copy(out.History, t.History)
	}
	if t.Messages != nil {
		out.Messages = make([]Message, len(t.Messages))
		for i, m := range t.Messages {
			out.Messages[i] = m
			if m.Attachments != nil {
				out.Messages[i].Attachments = make([]string, len(m.Attachments))
				copy(out.Messages[i].Attachments, m.Attachments)
			}
		}
	}
	return out
}

// CloneAll deep-copies a ticket slice.
func CloneAll(in []Ticket) []Ticket {
	out := make([]Ticket, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
