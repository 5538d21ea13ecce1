// Package handler exposes the tickets HTTP API.
package handler

import (
	"net/http"

	"ticketdesk_backend/internal/access"
	"ticketdesk_backend/internal/tickets/service"
	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/internal/tickets/transport"
	"ticketdesk_backend/platform/httpkit"
	"ticketdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for tickets.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new tickets handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the ticket routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.UpdateStatus)
	rg.POST("/:id/messages", h.AddMessage)
	rg.POST("/:id/deactivate", h.Deactivate)
	rg.POST("/:id/activate", h.Activate)
}

// List returns the tickets visible to the caller, optionally narrowed by the
// company and status query parameters. The query filters run after the
// visibility computation, never instead of it.
func (h *Handler) List(c *gin.Context) {
	actor := access.ActorFrom(c)

	list, err := h.svc.LoadTickets(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}

	if company := c.Query("company"); company != "" {
		list = keep(list, func(t store.Ticket) bool { return t.Company == company })
	}
	if status := c.Query("status"); status != "" {
		list = keep(list, func(t store.Ticket) bool { return string(t.Status) == status })
	}

	httpkit.OK(c, gin.H{"tickets": list})
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), access.ActorFrom(c), service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Image:       req.Image,
		UserEmail:   req.UserEmail,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, created)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	updated, err := h.svc.UpdateStatus(c.Request.Context(), access.ActorFrom(c), c.Param("id"), store.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, updated)
}

func (h *Handler) AddMessage(c *gin.Context) {
	var req transport.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	updated, err := h.svc.AddMessage(c.Request.Context(), access.ActorFrom(c), c.Param("id"), service.MessageInput{
		Content:     req.Content,
		SenderType:  store.SenderType(req.SenderType),
		Attachments: req.Attachments,
		IsInternal:  req.IsInternal,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, updated)
}

func (h *Handler) Deactivate(c *gin.Context) {
	updated, err := h.svc.Deactivate(c.Request.Context(), access.ActorFrom(c), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, updated)
}

func (h *Handler) Activate(c *gin.Context) {
	updated, err := h.svc.Activate(c.Request.Context(), access.ActorFrom(c), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, updated)
}

func keep(list []store.Ticket, pred func(store.Ticket) bool) []store.Ticket {
	out := make([]store.Ticket, 0, len(list))
	for _, t := range list {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
