// Package session owns the client's authentication state: one Session
// derived from bearer token claims, persisted as a raw token string.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
	"github.com/Leorodrigs/deathstore-storefront/internal/token"
)

// State is the manager's observable authentication state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	// StateExpired behaves identically to StateUnauthenticated for all
	// callers; it exists so the view can prompt re-login instead of login.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// Listener is notified after every identity change. session is nil when
// the manager transitioned to an unauthenticated state.
type Listener func(session *domain.Session)

// Manager owns the current session. It is constructed explicitly and
// injected into dependents; there is no ambient global.
type Manager struct {
	store TokenStore
	log   *zap.Logger
	now   func() time.Time

	mu        sync.Mutex
	state     State
	session   *domain.Session
	token     string
	listeners []Listener
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the expiry clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store TokenStore, log *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   log,
		now:   time.Now,
		state: StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore derives authentication state from the persisted token, if any.
// A malformed token is discarded and logged, never surfaced: the user
// simply starts unauthenticated. An expired token transitions to
// StateExpired and is likewise discarded.
func (m *Manager) Restore() error {
	raw, err := m.store.Load()
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	claims, err := token.Decode(raw)
	if err != nil {
		m.log.Warn("discarding invalid stored token", zap.Error(err))
		m.clearStore()
		m.discard(StateUnauthenticated)
		return nil
	}
	if claims.ExpiresAt < m.now().Unix() {
		m.log.Info("stored token expired", zap.Int64("exp", claims.ExpiresAt))
		m.clearStore()
		m.discard(StateExpired)
		return nil
	}

	sess := domain.SessionFromClaims(claims)
	m.mu.Lock()
	m.state = StateAuthenticated
	m.session = &sess
	m.token = raw
	m.mu.Unlock()
	m.notify(&sess)
	return nil
}

// Login stores the token and replaces the session wholesale from the
// caller-supplied claims. Identity returned by the login call is trusted
// as-is, not re-derived from the token.
func (m *Manager) Login(raw string, claims domain.Claims) error {
	if err := m.store.Save(raw); err != nil {
		return err
	}
	sess := domain.SessionFromClaims(claims)
	m.mu.Lock()
	m.state = StateAuthenticated
	m.session = &sess
	m.token = raw
	m.mu.Unlock()
	m.notify(&sess)
	return nil
}

// Logout discards the token and session. Idempotent.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.discard(StateUnauthenticated)
	return nil
}

func (m *Manager) clearStore() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn("could not clear token store", zap.Error(err))
	}
}

func (m *Manager) discard(state State) {
	m.mu.Lock()
	wasAuthenticated := m.session != nil
	m.state = state
	m.session = nil
	m.token = ""
	m.mu.Unlock()
	if wasAuthenticated || state == StateExpired {
		m.notify(nil)
	}
}

// Session returns a copy of the current session, or nil when
// unauthenticated or expired.
func (m *Manager) Session() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	sess := *m.session
	return &sess
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the raw bearer token, or "" when there is none. Satisfies
// the gateway's TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// IsAdmin reports the session's claimed admin flag. Advisory only, for
// UI gating; the backend enforces real authorization.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && m.session.IsAdmin
}

// Subscribe registers a listener for identity changes.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

func (m *Manager) notify(sess *domain.Session) {
	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()
	for _, l := range listeners {
		l(sess)
	}
}
