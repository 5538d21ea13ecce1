// Package transport defines request and response DTOs for the accounts API.
package transport

import (
	"time"

	"ticketdesk_backend/internal/accounts"
)

// CreateCustomerRequest is the admin form for a new customer.
type CreateCustomerRequest struct {
	CompanyName  string `json:"company_name" validate:"required,min=2,max=100"`
	Address      string `json:"address" validate:"omitempty,max=200"`
	PhoneNumber  string `json:"phone_number" validate:"omitempty,max=32"`
	FirstName    string `json:"first_name" validate:"required,max=80"`
	LastName     string `json:"last_name" validate:"required,max=80"`
	MobileNumber string `json:"mobile_number" validate:"omitempty,max=32"`
	Login        string `json:"login" validate:"required,min=3,max=80"`
	Position     string `json:"position" validate:"omitempty,max=80"`
	Username     string `json:"username" validate:"required,min=3,max=80"`
	Password     string `json:"password" validate:"required,min=6,max=128"`
}

// CreateRegularUserRequest is the form for a new regular user or manager.
type CreateRegularUserRequest struct {
	FirstName         string `json:"first_name" validate:"required,max=80"`
	LastName          string `json:"last_name" validate:"required,max=80"`
	Email             string `json:"email" validate:"required,email"`
	PhoneNumber       string `json:"phone_number" validate:"omitempty,max=32"`
	Position          string `json:"position" validate:"omitempty,max=80"`
	Username          string `json:"username" validate:"required,min=3,max=80"`
	Password          string `json:"password" validate:"required,min=6,max=128"`
	CompanyName       string `json:"company_name" validate:"required,min=2,max=100"`
	IsCustomerManager bool   `json:"is_customer_manager"`
}

// SetStatusRequest flips a regular user's lifecycle status.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// SignInRequest authenticates a customer or regular user.
type SignInRequest struct {
	Key      string `json:"key" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CustomerResponse is a customer record without the password hash.
type CustomerResponse struct {
	ID            string     `json:"id"`
	CompanyName   string     `json:"company_name"`
	Address       string     `json:"address,omitempty"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	CustomerSince *time.Time `json:"customer_since,omitempty"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	MobileNumber  string     `json:"mobile_number,omitempty"`
	Login         string     `json:"login"`
	Position      string     `json:"position,omitempty"`
	Username      string     `json:"username"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewCustomerResponse converts a record to its API shape.
func NewCustomerResponse(c accounts.CustomerRecord) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID.String(),
		CompanyName:   c.CompanyName,
		Address:       c.Address,
		PhoneNumber:   c.PhoneNumber,
		CustomerSince: c.CustomerSince,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		MobileNumber:  c.MobileNumber,
		Login:         c.Login,
		Position:      c.Position,
		Username:      c.Username,
		CreatedAt:     c.CreatedAt,
	}
}

// NewCustomerResponses converts a record slice.
func NewCustomerResponses(list []accounts.CustomerRecord) []CustomerResponse {
	out := make([]CustomerResponse, len(list))
	for i, c := range list {
		out[i] = NewCustomerResponse(c)
	}
	return out
}

// RegularUserResponse is a regular-user record without the password hash.
type RegularUserResponse struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	Position          string    `json:"position,omitempty"`
	Username          string    `json:"username"`
	CompanyName       string    `json:"company_name"`
	CreatedBy         string    `json:"created_by,omitempty"`
	Status            string    `json:"status"`
	IsCustomerManager bool      `json:"is_customer_manager"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewRegularUserResponse converts a record to its API shape.
func NewRegularUserResponse(u accounts.RegularUserRecord) RegularUserResponse {
	return RegularUserResponse{
		ID:                u.ID.String(),
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		Position:          u.Position,
		Username:          u.Username,
		CompanyName:       u.CompanyName,
		CreatedBy:         u.CreatedBy,
		Status:            string(u.Status),
		IsCustomerManager: u.IsCustomerManager,
		CreatedAt:         u.CreatedAt,
	}
}

// NewRegularUserResponses converts a record slice.
func NewRegularUserResponses(list []accounts.RegularUserRecord) []RegularUserResponse {
	out := make([]RegularUserResponse, len(list))
	for i, u := range list {
		out[i] = NewRegularUserResponse(u)
	}
	return out
}
