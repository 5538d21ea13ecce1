// Package session resolves the current actor from the configured identity
// sources. This file defines the Actor union consumed by the access guards
// and the ticket visibility filter.
package session

import (
	"time"

	"ticketdesk_backend/internal/accounts"
)

// ActorKind is the discriminant of the Actor union. Exactly one kind applies
// to a resolved actor; optional-field sniffing is never used to tell them apart.
type ActorKind string

const (
	// ActorMock is an in-memory mock-auth session.
	ActorMock ActorKind = "mock"
	// ActorCustomer is a session synthesized from a CustomerRecord.
	ActorCustomer ActorKind = "customer"
	// ActorRegularUser is a session synthesized from a RegularUserRecord.
	ActorRegularUser ActorKind = "regular_user"
	// ActorBackend is a session from the backend auth provider.
	ActorBackend ActorKind = "backend"
)

// Role values carried by actors.
const (
	RoleSuperAdmin      = "super_admin"
	RoleUser            = "user"
	RoleCustomer        = "customer"
	RoleCustomerManager = "customer_manager"
)

// Actor is the resolved current identity. At most one Actor is current per
// resolution; it is immutable once returned.
type Actor struct {
	Kind      ActorKind
	ID        string
	Email     string
	Username  string
	Role      string
	Company   string
	CreatedAt time.Time

	// IsCustomerManager is set for regular users carrying the manager flag.
	IsCustomerManager bool

	// Customer is the backing record for ActorCustomer.
	Customer *accounts.CustomerRecord
	// RegularUser is the backing record for ActorRegularUser.
	RegularUser *accounts.RegularUserRecord
	// Claims holds backend-provided token claims for ActorBackend.
	Claims map[string]interface{}
}

// Identifier returns the actor's primary identifying key: email when present,
// otherwise username.
func (a *Actor) Identifier() string {
	if a == nil {
		return ""
	}
	if a.Email != "" {
		return a.Email
	}
	return a.Username
}

func customerActor(record accounts.CustomerRecord) *Actor {
	rec := record
	return &Actor{
		Kind:      ActorCustomer,
		ID:        record.ID.String(),
		Username:  record.Username,
		Role:      RoleCustomer,
		Company:   record.CompanyName,
		CreatedAt: record.CreatedAt,
		Customer:  &rec,
	}
}

func regularUserActor(record accounts.RegularUserRecord) *Actor {
	rec := record
	role := RoleUser
	if record.IsCustomerManager {
		role = RoleCustomerManager
	}
	return &Actor{
		Kind:              ActorRegularUser,
		ID:                record.ID.String(),
		Email:             record.Email,
		Username:          record.Username,
		Role:              role,
		Company:           record.CompanyName,
		CreatedAt:         record.CreatedAt,
		IsCustomerManager: record.IsCustomerManager,
		RegularUser:       &rec,
	}
}
