// Package handler exposes the accounts HTTP API: admin-side CRUD and the
// credential sign-in endpoints.
package handler

import (
	"context"
	"net/http"

	"ticketdesk_backend/internal/access"
	"ticketdesk_backend/internal/accounts"
	"ticketdesk_backend/internal/accounts/service"
	"ticketdesk_backend/internal/accounts/transport"
	"ticketdesk_backend/platform/httpkit"
	"ticketdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// cookieMaxAge matches the session handler's cookie lifetime.
const cookieMaxAge = 60 * 60 * 24 * 30

// Handler handles HTTP requests for accounts.
type Handler struct {
	svc    *service.Service
	val    *validator.Validator
	secure bool
}

// New creates a new accounts handler.
func New(svc *service.Service, val *validator.Validator, secure bool) *Handler {
	return &Handler{svc: svc, val: val, secure: secure}
}

// RegisterAdminRoutes mounts customer CRUD for the root admin and company
// user management for the admin area.
func (h *Handler) RegisterAdminRoutes(superAdmin, admin *gin.RouterGroup) {
	customers := superAdmin.Group("/customers")
	customers.GET("", h.ListCustomers)
	customers.POST("", h.CreateCustomer)
	customers.GET("/:id", h.GetCustomer)
	customers.DELETE("/:id", h.DeleteCustomer)

	users := admin.Group("/regular-users")
	users.GET("", h.ListRegularUsers)
	users.POST("", h.CreateRegularUser)
	users.PATCH("/:id/status", h.SetRegularUserStatus)
	users.DELETE("/:id", h.DeleteRegularUser)
}

// RegisterAuthRoutes mounts the credential sign-in endpoints on the open v1
// group with the stricter auth rate limit.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/customers/sign-in", h.SignInCustomer)
	rg.POST("/regular-users/sign-in", h.SignInRegularUser)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req transport.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.CreateCustomer(c.Request.Context(), service.CreateCustomerInput{
		CompanyName:  req.CompanyName,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Login:        req.Login,
		Position:     req.Position,
		Username:     req.Username,
		Password:     req.Password,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.NewCustomerResponse(created))
}

func (h *Handler) ListCustomers(c *gin.Context) {
	list, err := h.svc.ListCustomers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"customers": transport.NewCustomerResponses(list)})
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	record, err := h.svc.GetCustomerByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewCustomerResponse(record))
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCustomer(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true})
}

func (h *Handler) CreateRegularUser(c *gin.Context) {
	var req transport.CreateRegularUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	actor := access.ActorFrom(c)
	created, err := h.svc.CreateRegularUser(c.Request.Context(), service.CreateRegularUserInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Position:          req.Position,
		Username:          req.Username,
		Password:          req.Password,
		CompanyName:       req.CompanyName,
		CreatedBy:         actor.Identifier(),
		IsCustomerManager: req.IsCustomerManager,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.NewRegularUserResponse(created))
}

// ListRegularUsers scopes to the company query parameter; customers may only
// list their own company.
func (h *Handler) ListRegularUsers(c *gin.Context) {
	company := c.Query("company")
	actor := access.ActorFrom(c)
	if access.Classify(actor) == access.RoleCustomer {
		company = actor.Company
	}
	if company == "" {
		httpkit.Error(c, http.StatusBadRequest, "company is required", nil)
		return
	}

	list, err := h.svc.ListRegularUsersByCompany(c.Request.Context(), company)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"regular_users": transport.NewRegularUserResponses(list)})
}

func (h *Handler) SetRegularUserStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.SetRegularUserStatus(c.Request.Context(), id, accounts.RegularUserStatus(req.Status)); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": req.Status})
}

func (h *Handler) DeleteRegularUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteRegularUser(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true})
}

func (h *Handler) SignInCustomer(c *gin.Context) {
	h.signIn(c, h.svc.SignInCustomer)
}

func (h *Handler) SignInRegularUser(c *gin.Context) {
	h.signIn(c, h.svc.SignInRegularUser)
}

func (h *Handler) signIn(c *gin.Context, fn func(context.Context, string, string) (service.SignInResult, error)) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := fn(c.Request.Context(), req.Key, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	c.SetCookie(access.SessionCookieName, result.SessionID, cookieMaxAge, "/", "", h.secure, true)
	httpkit.OK(c, gin.H{
		"session_id": result.SessionID,
		"home":       access.HomeRedirect(result.Actor, false).Path,
	})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
