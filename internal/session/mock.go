package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockUser is a seeded mock-auth identity. Role is "user" or "super_admin".
type MockUser struct {
	ID        string
	Email     string
	Password  string
	Role      string
	Company   string
	CreatedAt time.Time
}

// MockSession is an active in-memory mock-auth session.
type MockSession struct {
	ID        string
	Email     string
	Role      string
	Company   string
	CreatedAt time.Time
}

// MockAuth is the in-memory mock auth provider. It is authoritative when the
// backend auth provider is not configured. Constructed explicitly and injected
// so tests can reset state between runs.
type MockAuth struct {
	mu       sync.RWMutex
	users    map[string]MockUser
	sessions map[string]MockSession
}

// DefaultMockUsers returns the built-in demo identities.
func DefaultMockUsers() []MockUser {
	now := time.Now()
	return []MockUser{
		{ID: uuid.NewString(), Email: "admin", Password: "admin123", Role: RoleSuperAdmin, CreatedAt: now},
		{ID: uuid.NewString(), Email: "nike@example.com", Password: "nike123", Role: RoleUser, Company: "Nike", CreatedAt: now},
		{ID: uuid.NewString(), Email: "adidas@example.com", Password: "adidas123", Role: RoleUser, Company: "Adidas", CreatedAt: now},
	}
}

// NewMockAuth creates a mock auth provider seeded with the given users.
func NewMockAuth(users []MockUser) *MockAuth {
	m := &MockAuth{
		users:    make(map[string]MockUser, len(users)),
		sessions: make(map[string]MockSession),
	}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

// SignIn verifies credentials and binds a mock session to the session ID.
func (m *MockAuth) SignIn(sessionID, email, plainPassword string) (MockSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok || user.Password != plainPassword {
		return MockSession{}, false
	}

	sess := MockSession{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Company:   user.Company,
		CreatedAt: user.CreatedAt,
	}
	m.sessions[sessionID] = sess
	return sess, true
}

// Session returns the active mock session for the session ID, if any.
func (m *MockAuth) Session(sessionID string) (MockSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	return sess, ok
}

// SignOut removes the mock session bound to the session ID.
func (m *MockAuth) SignOut(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Reset drops all active sessions. Used between test runs.
func (m *MockAuth) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]MockSession)
}
