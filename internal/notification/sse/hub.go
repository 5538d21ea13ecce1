// Package sse provides Server-Sent Events support for real-time notifications.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"

	"ticketdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// EventType represents different types of SSE events
type EventType string

// CompanyAll subscribes a client to every company's events. Used for root
// admin sessions, which are not scoped to a single company.
const CompanyAll = "*"

const (
	EventSessionRevoked EventType = "session_revoked"

	// Ticket events (pushed to everyone watching the company's queue)
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketMessageAdded  EventType = "ticket_message_added"
)

// Event represents an SSE event payload
type Event struct {
	Type     EventType   `json:"type"`
	TicketID string      `json:"ticketId,omitempty"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client
type client struct {
	sessionID string
	company   string
	events    chan Event
}

// Hub manages SSE connections and event broadcasting
type Hub struct {
	mu         sync.RWMutex
	clients    map[string][]*client // sessionID -> clients
	companyMap map[string][]string  // company -> sessionIDs
	log        *logger.Logger
}

// New creates a new SSE hub
func New(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string][]*client),
		companyMap: make(map[string][]string),
		log:        log,
	}
}

// addClient registers a new client connection
func (h *Hub) addClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.sessionID] = append(h.clients[c.sessionID], c)

	// Track company membership
	if c.company != "" {
		h.companyMap[c.company] = append(h.companyMap[c.company], c.sessionID)
	}
}

// removeClient unregisters a client connection
func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[c.sessionID]
	for i, cl := range clients {
		if cl == c {
			h.clients[c.sessionID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[c.sessionID]) == 0 {
		delete(h.clients, c.sessionID)
	}

	close(c.events)
}

// Publish sends an event to a specific session
func (h *Hub) Publish(sessionID string, event Event) {
	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			h.log.Warn("sse event buffer full", "sessionId", sessionID)
		}
	}
}

// PublishToCompany broadcasts an event to every session scoped to the company
func (h *Hub) PublishToCompany(company string, event Event) {
	if company == "" {
		return
	}

	h.mu.RLock()
	sessionIDs := make([]string, 0, len(h.companyMap[company])+len(h.companyMap[CompanyAll]))
	sessionIDs = append(sessionIDs, h.companyMap[company]...)
	sessionIDs = append(sessionIDs, h.companyMap[CompanyAll]...)
	h.mu.RUnlock()

	// Deduplicate and send
	seen := make(map[string]bool)
	for _, sessionID := range sessionIDs {
		if seen[sessionID] {
			continue
		}
		seen[sessionID] = true
		h.Publish(sessionID, event)
	}
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	sessionIDs := make([]string, 0, len(h.clients))
	for sessionID := range h.clients {
		sessionIDs = append(sessionIDs, sessionID)
	}
	h.mu.RUnlock()

	for _, sessionID := range sessionIDs {
		h.Publish(sessionID, event)
	}
}

// Handler returns a Gin handler for SSE connections. The identify callback
// resolves the connecting session and its company scope.
func (h *Hub) Handler(identify func(*gin.Context) (sessionID, company string, ok bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, company, ok := identify(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Set SSE headers
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			sessionID: sessionID,
			company:   company,
			events:    make(chan Event, 32),
		}
		h.addClient(cl)
		defer h.removeClient(cl)

		c.SSEvent("connected", gin.H{"sessionId": sessionID, "company": company})
		c.Writer.Flush()

		h.log.Debug("sse client connected", "sessionId", sessionID, "company", company)

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				h.log.Debug("sse client disconnected", "sessionId", sessionID)
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	h.clients = make(map[string][]*client)
	h.companyMap = make(map[string][]string)
}
