// Package handler exposes the backend auth HTTP API.
package handler

import (
	"errors"
	"net/http"

	"ticketdesk_backend/internal/auth/repository"
	"ticketdesk_backend/internal/auth/service"
	"ticketdesk_backend/internal/auth/transport"
	"ticketdesk_backend/platform/httpkit"
	"ticketdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles backend auth HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a backend auth handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the backend auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sign-up", h.SignUp)
	rg.POST("/sign-in", h.SignIn)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/sign-out", h.SignOut)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req transport.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Password, req.Company)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			httpkit.Error(c, http.StatusConflict, "email already registered", nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, "sign-up failed", nil)
		return
	}

	httpkit.JSON(c, http.StatusCreated, tokenResponse(pair))
}

func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	httpkit.OK(c, tokenResponse(pair))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	httpkit.OK(c, tokenResponse(pair))
}

func (h *Handler) SignOut(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.svc.SignOut(c.Request.Context(), req.RefreshToken); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "sign-out failed", nil)
		return
	}
	httpkit.OK(c, gin.H{"signed_out": true})
}

func tokenResponse(pair service.TokenPair) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}
}
