// Package service holds the portal's business logic: the session
// lifecycle, session registry and revalidation, attempt rate limiting,
// and the signed portal cookie.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tolonipescarias/portal/internal/config"
	"github.com/tolonipescarias/portal/internal/domain"
)

// AuthAPI is the remote auth contract consumed by the session manager.
type AuthAPI interface {
	CheckSession(ctx context.Context, token string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	Logout(ctx context.Context, token string) error
}

// SessionManager owns the session state of a single client: the confirmed
// identity, whether an auth operation is in flight, and the last recorded
// error. Every operation sets loading for its duration and clears the
// error on start. State updates are last-write-wins; callers that care
// about ordering serialize conflicting operations themselves.
type SessionManager struct {
	api    AuthAPI
	policy config.Policy
	log    *slog.Logger

	mu      sync.Mutex
	token   string
	user    *domain.User
	loading bool
	lastErr string
}

// NewSessionManager creates a manager with no session established.
func NewSessionManager(api AuthAPI, policy config.Policy, log *slog.Logger) *SessionManager {
	return &SessionManager{api: api, policy: policy, log: log}
}

// Resume creates a manager for a previously established session, seeded
// with the persisted upstream token and identity snapshot.
func Resume(api AuthAPI, policy config.Policy, log *slog.Logger, token string, user domain.User) *SessionManager {
	m := NewSessionManager(api, policy, log)
	m.token = token
	u := user
	m.user = &u
	return m
}

// begin marks an operation as in flight and clears the previous error.
func (m *SessionManager) begin() {
	m.mu.Lock()
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()
}

// CheckSession asks the remote service whether the session is still
// authenticated and updates the cached identity accordingly. It never
// returns an error: a transport failure is logged and the session is
// treated as anonymous. The returned user is nil for anonymous sessions.
func (m *SessionManager) CheckSession(ctx context.Context) *domain.User {
	user, err := m.Revalidate(ctx)
	if err != nil {
		m.log.Warn("session check failed, treating session as anonymous", "error", err)
		m.mu.Lock()
		m.user = nil
		m.mu.Unlock()
		return nil
	}
	return user
}

// Revalidate rechecks the session against the remote service, letting
// callers tell a confirmed-anonymous session apart from an unreachable
// service. On a transport error the cached identity is left untouched.
func (m *SessionManager) Revalidate(ctx context.Context) (*domain.User, error) {
	m.begin()
	token := m.Token()

	user, err := m.api.CheckSession(ctx, token)
	if err != nil {
		m.settle()
		return nil, err
	}
	if user != nil && m.policy.IsAdminEmail(user.Email) {
		user.Role = domain.RoleAdmin
	}

	m.mu.Lock()
	m.user = user
	m.loading = false
	m.mu.Unlock()
	return m.User(), nil
}

// Login authenticates against the remote service. It fails when the
// service rejects the credentials, or when the confirmed identity is
// unverified, policy requires verification, and the identity is not the
// administrator. The error is recorded in state and returned.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	m.begin()

	user, token, err := m.api.Login(ctx, email, password)
	if err == nil && !user.EmailVerified && m.policy.RequireVerifiedEmail && !m.policy.IsAdminEmail(user.Email) {
		err = fmt.Errorf("%w: please verify your email before logging in", domain.ErrEmailNotVerified)
	}
	if err != nil {
		m.fail(err)
		return err
	}

	if m.policy.IsAdminEmail(user.Email) {
		user.Role = domain.RoleAdmin
	}

	m.mu.Lock()
	m.user = user
	m.token = token
	m.loading = false
	m.mu.Unlock()
	return nil
}

// Register validates the email domain against the allow-list before any
// network call, then creates the account remotely. The user is not
// logged in; email verification happens first.
func (m *SessionManager) Register(ctx context.Context, name, email, password string) (string, error) {
	m.begin()

	if !m.policy.AllowsDomain(email) {
		err := fmt.Errorf("%w: registration is limited to approved email providers", domain.ErrDomainNotAllowed)
		m.fail(err)
		return "", err
	}

	msg, err := m.api.Register(ctx, name, email, password)
	if err != nil {
		m.fail(err)
		return "", err
	}
	m.settle()
	return msg, nil
}

// ResendVerification asks the remote service to re-send the verification mail.
func (m *SessionManager) ResendVerification(ctx context.Context, email string) (string, error) {
	return m.passthrough(func() (string, error) { return m.api.ResendVerification(ctx, email) })
}

// ForgotPassword starts the password reset flow.
func (m *SessionManager) ForgotPassword(ctx context.Context, email string) (string, error) {
	return m.passthrough(func() (string, error) { return m.api.ForgotPassword(ctx, email) })
}

// ResetPassword completes the password reset flow.
func (m *SessionManager) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return m.passthrough(func() (string, error) { return m.api.ResetPassword(ctx, token, newPassword) })
}

// Logout ends the upstream session best-effort and unconditionally clears
// the cached identity. A transport failure is logged, not surfaced.
func (m *SessionManager) Logout(ctx context.Context) {
	m.begin()

	if token := m.Token(); token != "" {
		if err := m.api.Logout(ctx, token); err != nil {
			m.log.Warn("remote logout failed, clearing session anyway", "error", err)
		}
	}

	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.loading = false
	m.mu.Unlock()
}

// User returns a copy of the confirmed identity, or nil when anonymous.
func (m *SessionManager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token returns the upstream session token, empty when anonymous.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Loading reports whether an auth operation is in flight.
func (m *SessionManager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LastError returns the error recorded by the most recent operation,
// empty when it succeeded.
func (m *SessionManager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *SessionManager) passthrough(call func() (string, error)) (string, error) {
	m.begin()
	msg, err := call()
	if err != nil {
		m.fail(err)
		return "", err
	}
	m.settle()
	return msg, nil
}

func (m *SessionManager) fail(err error) {
	m.mu.Lock()
	m.lastErr = err.Error()
	m.loading = false
	m.mu.Unlock()
}

func (m *SessionManager) settle() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}
