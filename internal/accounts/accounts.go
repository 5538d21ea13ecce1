// Package accounts provides customer and regular-user account management.
// This file defines the public API of the accounts bounded context.
// Only types and interfaces defined here should be imported by other domains.
package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RegularUserStatus is the lifecycle state of a regular user.
type RegularUserStatus string

const (
	StatusActive   RegularUserStatus = "active"
	StatusInactive RegularUserStatus = "inactive"
)

// CustomerRecord is a company plus its primary contact login. Created by the
// root admin; username and login are unique across all customers.
type CustomerRecord struct {
	ID            uuid.UUID
	CompanyName   string
	Address       string
	PhoneNumber   string
	CustomerSince *time.Time
	FirstName     string
	LastName      string
	MobileNumber  string
	Login         string
	Position      string
	Username      string
	PasswordHash  string
	CreatedAt     time.Time
}

// RegularUserRecord is a user or customer manager scoped to one company.
// Username and email are unique; the company must reference an existing
// CustomerRecord when the user is created as a manager.
type RegularUserRecord struct {
	ID                uuid.UUID
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	Position          string
	Username          string
	PasswordHash      string
	CompanyName       string
	CreatedBy         string
	Status            RegularUserStatus
	IsCustomerManager bool
	CreatedAt         time.Time
}

// Reader exposes account lookups needed by the session resolver.
type Reader interface {
	GetCustomerByID(ctx context.Context, id uuid.UUID) (CustomerRecord, error)
	GetRegularUserByID(ctx context.Context, id uuid.UUID) (RegularUserRecord, error)
}

// ManagerDirectory answers whether an identifying key (username or email)
// belongs to an active customer manager.
type ManagerDirectory interface {
	IsCustomerManager(ctx context.Context, key string) (bool, error)
}
