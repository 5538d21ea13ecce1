// Package service implements account management: customer and regular-user
// CRUD plus credential sign-in that establishes resolver sessions.
package service

import (
	"context"
	"errors"
	"strings"

	"ticketdesk_backend/internal/accounts"
	"ticketdesk_backend/internal/accounts/repository"
	"ticketdesk_backend/internal/auth/password"
	"ticketdesk_backend/internal/session"
	"ticketdesk_backend/platform/apperr"
	"ticketdesk_backend/platform/logger"
	"ticketdesk_backend/platform/phone"

	"github.com/google/uuid"
)

// Service manages customer and regular-user accounts.
type Service struct {
	repo     *repository.Repository
	resolver *session.Resolver
	log      *logger.Logger
}

// New creates an accounts service.
func New(repo *repository.Repository, resolver *session.Resolver, log *logger.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, log: log}
}

// CreateCustomerInput carries the admin-entered customer form.
type CreateCustomerInput struct {
	CompanyName  string
	Address      string
	PhoneNumber  string
	FirstName    string
	LastName     string
	MobileNumber string
	Login        string
	Position     string
	Username     string
	Password     string
}

// CreateCustomer creates a customer record with a hashed password and
// normalized phone numbers. Username and login collisions surface as
// conflicts.
func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) (accounts.CustomerRecord, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return accounts.CustomerRecord{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	record := accounts.CustomerRecord{
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Address:      strings.TrimSpace(in.Address),
		PhoneNumber:  phone.NormalizeE164(in.PhoneNumber),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		MobileNumber: phone.NormalizeE164(in.MobileNumber),
		Login:        strings.TrimSpace(in.Login),
		Position:     strings.TrimSpace(in.Position),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
	}

	created, err := s.repo.CreateCustomer(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return accounts.CustomerRecord{}, apperr.Conflict("username or login already in use")
		}
		return accounts.CustomerRecord{}, apperr.Wrap(apperr.KindInternal, "failed to create customer", err)
	}

	s.log.Info("customer created", "customer_id", created.ID, "company", created.CompanyName)
	return created, nil
}

// ListCustomers returns all customer records, newest first.
func (s *Service) ListCustomers(ctx context.Context) ([]accounts.CustomerRecord, error) {
	list, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list customers", err)
	}
	return list, nil
}

// GetCustomerByID returns a single customer record.
func (s *Service) GetCustomerByID(ctx context.Context, id uuid.UUID) (accounts.CustomerRecord, error) {
	record, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return accounts.CustomerRecord{}, apperr.NotFound("customer not found")
		}
		return accounts.CustomerRecord{}, apperr.Wrap(apperr.KindInternal, "failed to load customer", err)
	}
	return record, nil
}

// DeleteCustomer removes a customer record.
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("customer not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete customer", err)
	}
	s.log.Info("customer deleted", "customer_id", id)
	return nil
}

// CreateRegularUserInput carries the regular-user form.
type CreateRegularUserInput struct {
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	Position          string
	Username          string
	Password          string
	CompanyName       string
	CreatedBy         string
	IsCustomerManager bool
}

// CreateRegularUser creates a regular user. A manager must reference an
// existing customer's company; everyone starts active.
func (s *Service) CreateRegularUser(ctx context.Context, in CreateRegularUserInput) (accounts.RegularUserRecord, error) {
	if in.IsCustomerManager {
		exists, err := s.repo.CustomerCompanyExists(ctx, in.CompanyName)
		if err != nil {
			return accounts.RegularUserRecord{}, apperr.Wrap(apperr.KindInternal, "failed to verify company", err)
		}
		if !exists {
			return accounts.RegularUserRecord{}, apperr.Validation("company does not reference an existing customer")
		}
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return accounts.RegularUserRecord{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	record := accounts.RegularUserRecord{
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Email:             strings.TrimSpace(strings.ToLower(in.Email)),
		PhoneNumber:       phone.NormalizeE164(in.PhoneNumber),
		Position:          strings.TrimSpace(in.Position),
		Username:          strings.TrimSpace(in.Username),
		PasswordHash:      hash,
		CompanyName:       strings.TrimSpace(in.CompanyName),
		CreatedBy:         in.CreatedBy,
		Status:            accounts.StatusActive,
		IsCustomerManager: in.IsCustomerManager,
	}

	created, err := s.repo.CreateRegularUser(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return accounts.RegularUserRecord{}, apperr.Conflict("username or email already in use")
		}
		return accounts.RegularUserRecord{}, apperr.Wrap(apperr.KindInternal, "failed to create regular user", err)
	}

	s.log.Info("regular user created",
		"user_id", created.ID,
		"company", created.CompanyName,
		"manager", created.IsCustomerManager,
	)
	return created, nil
}

// ListRegularUsersByCompany returns a company's regular users.
func (s *Service) ListRegularUsersByCompany(ctx context.Context, companyName string) ([]accounts.RegularUserRecord, error) {
	list, err := s.repo.ListRegularUsersByCompany(ctx, companyName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list regular users", err)
	}
	return list, nil
}

// SetRegularUserStatus flips a user between active and inactive.
func (s *Service) SetRegularUserStatus(ctx context.Context, id uuid.UUID, status accounts.RegularUserStatus) error {
	if status != accounts.StatusActive && status != accounts.StatusInactive {
		return apperr.Validation("unknown status")
	}
	if err := s.repo.SetRegularUserStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("regular user not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to update status", err)
	}
	return nil
}

// DeleteRegularUser removes a regular user.
func (s *Service) DeleteRegularUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRegularUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("regular user not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete regular user", err)
	}
	return nil
}

// SignInResult is an established session plus its resolved actor.
type SignInResult struct {
	SessionID string
	Actor     *session.Actor
}

// SignInCustomer verifies customer credentials by username or login and
// establishes a session. Wrong key and wrong password are indistinguishable
// to the caller.
func (s *Service) SignInCustomer(ctx context.Context, key, plainPassword string) (SignInResult, error) {
	record, err := s.repo.GetCustomerByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return SignInResult{}, apperr.Unauthorized("invalid credentials")
	}
	if err := password.Compare(record.PasswordHash, plainPassword); err != nil {
		return SignInResult{}, apperr.Unauthorized("invalid credentials")
	}

	sid, err := s.resolver.EstablishCustomer(ctx, record)
	if err != nil {
		return SignInResult{}, apperr.Wrap(apperr.KindInternal, "failed to establish session", err)
	}

	actor := s.resolver.Resolve(ctx, session.Keys{SessionID: sid})
	s.log.AuthEvent("customer_sign_in", record.ID.String(), true, "")
	return SignInResult{SessionID: sid, Actor: actor}, nil
}

// SignInRegularUser verifies regular-user credentials by username or email.
// Inactive users cannot sign in.
func (s *Service) SignInRegularUser(ctx context.Context, key, plainPassword string) (SignInResult, error) {
	record, err := s.repo.GetRegularUserByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return SignInResult{}, apperr.Unauthorized("invalid credentials")
	}
	if record.Status != accounts.StatusActive {
		return SignInResult{}, apperr.Unauthorized("invalid credentials")
	}
	if err := password.Compare(record.PasswordHash, plainPassword); err != nil {
		return SignInResult{}, apperr.Unauthorized("invalid credentials")
	}

	sid, err := s.resolver.EstablishRegularUser(ctx, record)
	if err != nil {
		return SignInResult{}, apperr.Wrap(apperr.KindInternal, "failed to establish session", err)
	}

	actor := s.resolver.Resolve(ctx, session.Keys{SessionID: sid})
	s.log.AuthEvent("regular_user_sign_in", record.ID.String(), true, "")
	return SignInResult{SessionID: sid, Actor: actor}, nil
}

// Reader adapts the repository to the accounts.Reader interface consumed by
// the session resolver.
func (s *Service) Reader() accounts.Reader {
	return s.repo
}

// ManagerDirectory adapts the repository to the accounts.ManagerDirectory
// interface consumed by the manager guard.
func (s *Service) ManagerDirectory() accounts.ManagerDirectory {
	return s.repo
}
