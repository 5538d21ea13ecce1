package session

import (
	"context"
	"errors"
	"strings"

	"ticketdesk_backend/internal/accounts"
	"ticketdesk_backend/internal/auth/token"
	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/platform/config"
	"ticketdesk_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Keys carries the raw session material presented by a request.
type Keys struct {
	// SessionID is the server-issued session identifier (cookie or header).
	SessionID string
	// BearerToken is the raw backend auth access token, if presented.
	BearerToken string
}

// Resolver determines the effective current actor by checking identity
// sources in strict precedence order: mock auth, tab-scoped customer cache,
// tab-scoped regular-user cache, persisted customer ID, persisted
// regular-user ID, backend auth session. First match wins.
type Resolver struct {
	mock     *MockAuth
	cache    Cache
	accounts accounts.Reader
	cfg      config.JWTConfig
	bus      events.Bus
	log      *logger.Logger
}

// NewResolver creates a session resolver. mock may be nil when the backend
// auth provider is authoritative.
func NewResolver(mock *MockAuth, cache Cache, reader accounts.Reader, cfg config.JWTConfig, bus events.Bus, log *logger.Logger) *Resolver {
	return &Resolver{
		mock:     mock,
		cache:    cache,
		accounts: reader,
		cfg:      cfg,
		bus:      bus,
		log:      log,
	}
}

// Resolve returns the current actor, or nil when unauthenticated. It never
// fails: any storage or parse problem is treated as "source absent" and
// resolution continues down the chain.
func (r *Resolver) Resolve(ctx context.Context, keys Keys) *Actor {
	sid := strings.TrimSpace(keys.SessionID)

	if r.mock != nil && sid != "" {
		if sess, ok := r.mock.Session(sid); ok {
			return &Actor{
				Kind:      ActorMock,
				ID:        sess.ID,
				Email:     sess.Email,
				Role:      sess.Role,
				Company:   sess.Company,
				CreatedAt: sess.CreatedAt,
			}
		}
	}

	if sid != "" {
		if record := r.cache.Customer(ctx, sid); record != nil {
			return customerActor(*record)
		}
		if record := r.cache.RegularUser(ctx, sid); record != nil {
			return regularUserActor(*record)
		}
		if actor := r.resolvePersistedCustomer(ctx, sid); actor != nil {
			return actor
		}
		if actor := r.resolvePersistedRegularUser(ctx, sid); actor != nil {
			return actor
		}
	}

	if actor := r.resolveBackend(keys.BearerToken); actor != nil {
		return actor
	}

	return nil
}

func (r *Resolver) resolvePersistedCustomer(ctx context.Context, sid string) *Actor {
	id, ok := r.cache.PersistedCustomerID(ctx, sid)
	if !ok {
		return nil
	}

	record, err := r.accounts.GetCustomerByID(ctx, id)
	if err != nil {
		// Stale ID: the record is gone, so drop the pointer instead of
		// retrying it on every resolution.
		if err := r.cache.DeletePersistedCustomerID(ctx, sid); err != nil {
			r.log.StoreError("session_stale_customer_id", sid, err)
		}
		return nil
	}

	// Backfill the tab-scoped entry so the next resolution short-circuits.
	if err := r.cache.SetCustomer(ctx, sid, record); err != nil {
		r.log.StoreError("session_backfill_customer", sid, err)
	}
	return customerActor(record)
}

func (r *Resolver) resolvePersistedRegularUser(ctx context.Context, sid string) *Actor {
	id, ok := r.cache.PersistedRegularUserID(ctx, sid)
	if !ok {
		return nil
	}

	record, err := r.accounts.GetRegularUserByID(ctx, id)
	if err != nil {
		if err := r.cache.DeletePersistedRegularUserID(ctx, sid); err != nil {
			r.log.StoreError("session_stale_regular_user_id", sid, err)
		}
		return nil
	}

	if err := r.cache.SetRegularUser(ctx, sid, record); err != nil {
		r.log.StoreError("session_backfill_regular_user", sid, err)
	}
	return regularUserActor(record)
}

func (r *Resolver) resolveBackend(rawToken string) *Actor {
	if r.cfg == nil || !r.cfg.IsBackendAuthEnabled() || rawToken == "" {
		return nil
	}

	claims, err := parseAccessClaims(rawToken, r.cfg.GetJWTAccessSecret())
	if err != nil {
		return nil
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	company, _ := claims["company"].(string)
	role := RoleUser
	if roles := claimRoles(claims["roles"]); len(roles) > 0 {
		role = roles[0]
	}

	return &Actor{
		Kind:    ActorBackend,
		ID:      sub,
		Email:   email,
		Role:    role,
		Company: company,
		Claims:  claims,
	}
}

// EstablishCustomer starts a customer session: a fresh session ID with both
// the tab-scoped record copy and the persisted ID written through.
func (r *Resolver) EstablishCustomer(ctx context.Context, record accounts.CustomerRecord) (string, error) {
	sid, err := token.GenerateRandomToken(24)
	if err != nil {
		return "", err
	}
	if err := r.cache.SetCustomer(ctx, sid, record); err != nil {
		return "", err
	}
	if err := r.cache.SetPersistedCustomerID(ctx, sid, record.ID); err != nil {
		return "", err
	}
	r.log.SessionEvent("established", sid, string(ActorCustomer))
	return sid, nil
}

// EstablishRegularUser starts a regular-user session.
func (r *Resolver) EstablishRegularUser(ctx context.Context, record accounts.RegularUserRecord) (string, error) {
	sid, err := token.GenerateRandomToken(24)
	if err != nil {
		return "", err
	}
	if err := r.cache.SetRegularUser(ctx, sid, record); err != nil {
		return "", err
	}
	if err := r.cache.SetPersistedRegularUserID(ctx, sid, record.ID); err != nil {
		return "", err
	}
	r.log.SessionEvent("established", sid, string(ActorRegularUser))
	return sid, nil
}

// EstablishMock starts a mock-auth session.
func (r *Resolver) EstablishMock(ctx context.Context, email, plainPassword string) (string, error) {
	if r.mock == nil {
		return "", errors.New("mock auth not enabled")
	}
	sid, err := token.GenerateRandomToken(24)
	if err != nil {
		return "", err
	}
	if _, ok := r.mock.SignIn(sid, email, plainPassword); !ok {
		return "", errors.New("invalid credentials")
	}
	r.log.SessionEvent("established", sid, string(ActorMock))
	return sid, nil
}

// SignOut clears every identity source bound to the session ID and publishes
// the revocation so other consumers re-resolve to unauthenticated.
func (r *Resolver) SignOut(ctx context.Context, sessionID string) {
	actorID := ""
	if actor := r.Resolve(ctx, Keys{SessionID: sessionID}); actor != nil {
		actorID = actor.ID
	}

	if r.mock != nil {
		r.mock.SignOut(sessionID)
	}
	if err := r.cache.Clear(ctx, sessionID); err != nil {
		r.log.StoreError("session_clear", sessionID, err)
	}

	r.log.SessionEvent("revoked", sessionID, "")
	if r.bus != nil {
		r.bus.Publish(ctx, events.SessionRevoked{
			BaseEvent: events.NewBaseEvent(),
			SessionID: sessionID,
			ActorID:   actorID,
		})
	}
}

func parseAccessClaims(rawToken, secret string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token")
	}

	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func claimRoles(value interface{}) []string {
	roles := make([]string, 0)
	if value == nil {
		return roles
	}

	switch typed := value.(type) {
	case []string:
		return append(roles, typed...)
	case []interface{}:
		for _, item := range typed {
			if text, ok := item.(string); ok {
				roles = append(roles, text)
			}
		}
	}

	return roles
}
