// Package session holds the per-browser server state: the authenticated
// user, if any, and the single in-progress order. Sessions are ephemeral
// and in-memory; durable state lives in the user store, the event log and
// the order archive.
package session

import (
	"sync"
	"time"

	"github.com/gofrs/uuid"

	"cartflow/internal/order"
	"cartflow/internal/user"
)

// Session is the state bound to one browser via the cookie token.
// Handlers mutate User and Order directly; one request at a time per
// session is the assumed usage.
type Session struct {
	Token     string
	User      *user.User
	Order     *order.Order
	ExpiresAt time.Time
}

// Manager keys live sessions by opaque token.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session for token, refreshing its expiry, or nil for
// unknown and expired tokens. Expired sessions are dropped on sight.
func (m *Manager) Get(token string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil
	}
	now := m.now()
	if now.After(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil
	}
	s.ExpiresAt = now.Add(m.ttl)
	return s
}

// Start creates a fresh anonymous session with a new open order.
func (m *Manager) Start() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := &Session{
		Token:     newToken(),
		Order:     order.New(now),
		ExpiresAt: now.Add(m.ttl),
	}
	m.sessions[s.Token] = s
	return s
}

// Rotate re-keys the session under a new token and invalidates the old
// one. Called on every auth transition to prevent session fixation.
func (m *Manager) Rotate(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, s.Token)
	s.Token = newToken()
	m.sessions[s.Token] = s
}

func newToken() string {
	return uuid.Must(uuid.NewV4()).String()
}
