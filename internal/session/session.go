// Package session tracks an authenticated account across the request
// sequence that makes up one client conversation: the credential, the
// account summary, and the transitions the provider onboarding flow
// performs on both.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// Manager owns one account's auth state. All mutation goes through it so
// a credential renewal mid-flow (role elevation reissues the token) is
// never lost between steps.
type Manager struct {
	mu      sync.RWMutex
	gateway gateway.Client
	log     *slog.Logger
	token   string
	user    *domain.User
}

func NewManager(gw gateway.Client, log *slog.Logger) *Manager {
	return &Manager{gateway: gw, log: log}
}

// Resume adopts an existing credential, fetching the account behind it.
func (m *Manager) Resume(ctx context.Context, token string) (*domain.User, error) {
	user, err := m.gateway.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	return user, nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	sess, err := m.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.adopt(sess)
	return sess, nil
}

func (m *Manager) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthSession, error) {
	sess, err := m.gateway.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	m.adopt(sess)
	return sess, nil
}

func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
}

// IsAuthenticated reports whether a credential is currently held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Current returns a copy of the account summary, or nil when anonymous.
func (m *Manager) Current() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	copied := *m.user
	return &copied
}

// Refresh re-fetches the account behind the held credential.
func (m *Manager) Refresh(ctx context.Context) (*domain.User, error) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return nil, apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente.")
	}
	user, err := m.gateway.Me(ctx, token)
	if err != nil {
		return nil, m.dropIfUnauthorized(err)
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return user, nil
}

// UpgradeToProviderRole elevates the account to the provider role. When
// the backend reissues a token the renewed credential replaces the held
// one immediately; every later call in the flow must use it, the old
// token no longer carries the right role claim.
func (m *Manager) UpgradeToProviderRole(ctx context.Context) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente.")
	}

	sess, err := m.gateway.UpgradeRole(ctx, token, domain.RoleProvider)
	if err != nil {
		return m.dropIfUnauthorized(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess.Token != "" {
		m.token = sess.Token
	}
	if sess.User != nil {
		m.user = sess.User
	} else if m.user != nil {
		m.user.Role = domain.RoleProvider
	}
	m.log.Info("role elevated to provider", "renewedToken", sess.Token != "")
	return nil
}

// HandleUnauthorized drops the held state after the backend rejected the
// credential. The caller decides what to tell the user; no redirect or
// retry happens here.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
	m.log.Warn("session expired, credential dropped")
}

// dropIfUnauthorized turns a backend credential rejection into the
// unauthorized event before passing the error through.
func (m *Manager) dropIfUnauthorized(err error) error {
	if apperror.StatusCode(err) == http.StatusUnauthorized {
		m.HandleUnauthorized()
	}
	return err
}

func (m *Manager) adopt(sess *domain.AuthSession) {
	m.mu.Lock()
	m.token = sess.Token
	if sess.User != nil {
		copied := *sess.User
		m.user = &copied
	}
	m.mu.Unlock()
}
