package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/logging"
	"github.com/jonboulle/clockwork"
)

// Authenticator performs the remote login call.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// Navigator is told to send the user back to the login entry point.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

// Manager is the single source of truth for "is the user logged in, and as
// whom". It is safe for concurrent use.
type Manager struct {
	store  Store
	nav    Navigator
	clock  clockwork.Clock
	logger logging.Logger

	mu   sync.RWMutex
	auth Authenticator
}

type Option func(*Manager)

// WithClock sets the time source used for expiry checks.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithNavigator sets the target of logout redirects.
func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.nav = n }
}

// NewManager creates a Manager over store. Call Open before Login.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		nav:    NavigatorFunc(func(context.Context) {}),
		clock:  clockwork.NewRealClock(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open binds the authenticator and repairs a half-written stored session.
func (m *Manager) Open(ctx context.Context, auth Authenticator) error {
	m.mu.Lock()
	m.auth = auth
	m.mu.Unlock()

	_, hasToken := m.Token(ctx)
	_, hasUser := m.CurrentUser(ctx)
	if hasToken != hasUser {
		m.logger.Warn(ctx, "discarding incomplete stored session", "has_token", hasToken, "has_user", hasUser)
		if err := m.clear(ctx); err != nil {
			return fmt.Errorf("clear stored session: %w", err)
		}
	}
	return nil
}

// Close unbinds the authenticator. The stored session is kept.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.auth = nil
	m.mu.Unlock()
	return nil
}

// Login authenticates and, on success, replaces the stored session with the
// new credential and user record. On failure nothing is stored and the error
// is returned as is.
func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.mu.RLock()
	auth := m.auth
	m.mu.RUnlock()
	if auth == nil {
		return nil, ErrNotOpen
	}

	resp, err := auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	user, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode user record: %w", err)
	}

	if err := m.store.SetAll(ctx, map[string]string{
		common.TokenKey: resp.Credential(),
		common.UserKey:  string(user),
	}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	m.logger.Info(ctx, "logged in", "user_id", resp.UserID, "email", resp.Email)
	return resp, nil
}

// Logout clears the stored session unconditionally and redirects to login.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.clear(ctx); err != nil {
		m.logger.Error(ctx, "failed to clear session", "error", err)
	}
	m.logger.Info(ctx, "logged out")
	m.nav.ToLogin(ctx)
}

func (m *Manager) clear(ctx context.Context) error {
	return m.store.DeleteAll(ctx, common.TokenKey, common.UserKey)
}

// Token returns the stored "<type> <token>" credential.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	v, found, err := m.store.Get(ctx, common.TokenKey)
	if err != nil {
		m.logger.Warn(ctx, "failed to read session token", "error", err)
		return "", false
	}
	if !found || v == "" {
		return "", false
	}
	return v, true
}

// CurrentUser returns the stored login response. An unreadable record is
// reported as absent.
func (m *Manager) CurrentUser(ctx context.Context) (*models.LoginResponse, bool) {
	raw, found, err := m.store.Get(ctx, common.UserKey)
	if err != nil {
		m.logger.Warn(ctx, "failed to read session user", "error", err)
		return nil, false
	}
	if !found || raw == "" {
		return nil, false
	}
	var user models.LoginResponse
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// IsAuthenticated reports whether a non-expired credential is stored.
// Without a credential it returns false and does nothing else; with an
// expired or undecodable one it logs out first.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	token, ok := m.Token(ctx)
	if !ok {
		return false
	}
	if isExpired(token, m.clock.Now()) {
		m.logger.Info(ctx, "session token expired")
		m.Logout(ctx)
		return false
	}
	return true
}

// HasRole reports whether the current user carries role.
func (m *Manager) HasRole(ctx context.Context, role models.Role) bool {
	user, ok := m.CurrentUser(ctx)
	if !ok {
		return false
	}
	return user.HasRole(role)
}
