package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tolonipescarias/portal/internal/config"
	"github.com/tolonipescarias/portal/internal/domain"
)

// SessionRegistry tracks one SessionManager per portal session and keeps
// the persistent session store in sync, so established sessions survive
// a portal restart. Managers are rehydrated lazily from the store.
type SessionRegistry struct {
	api    AuthAPI
	policy config.Policy
	repo   domain.SessionRepository
	log    *slog.Logger

	mu       sync.Mutex
	managers map[string]*SessionManager
}

// NewSessionRegistry creates an empty registry over the given store.
func NewSessionRegistry(api AuthAPI, policy config.Policy, repo domain.SessionRepository, log *slog.Logger) *SessionRegistry {
	return &SessionRegistry{
		api:      api,
		policy:   policy,
		repo:     repo,
		log:      log,
		managers: make(map[string]*SessionManager),
	}
}

// NewManager returns a fresh, anonymous SessionManager. It is not
// registered until Establish is called after a successful login.
func (r *SessionRegistry) NewManager() *SessionManager {
	return NewSessionManager(r.api, r.policy, r.log)
}

// Establish registers a manager holding an authenticated session and
// persists the session record. It returns the new portal session ID.
func (r *SessionRegistry) Establish(ctx context.Context, m *SessionManager) (string, error) {
	user := m.User()
	if user == nil {
		return "", domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:              uuid.NewString(),
		Token:           m.Token(),
		User:            *user,
		CreatedAt:       now,
		LastValidatedAt: now,
	}
	if err := r.repo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	r.mu.Lock()
	r.managers[session.ID] = m
	r.mu.Unlock()
	return session.ID, nil
}

// Get returns the manager for a portal session ID, rehydrating it from
// the store if the portal restarted since the session was established.
// Returns domain.ErrNotFound for unknown or evicted sessions.
func (r *SessionRegistry) Get(ctx context.Context, id string) (*SessionManager, error) {
	r.mu.Lock()
	m, ok := r.managers[id]
	r.mu.Unlock()
	if ok {
		return m, nil
	}

	session, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m = Resume(r.api, r.policy, r.log, session.Token, session.User)

	r.mu.Lock()
	// Another request may have rehydrated concurrently; keep the first.
	if existing, ok := r.managers[id]; ok {
		m = existing
	} else {
		r.managers[id] = m
	}
	r.mu.Unlock()
	return m, nil
}

// Drop logs the session out upstream (best effort), removes it from the
// store, and forgets the manager.
func (r *SessionRegistry) Drop(ctx context.Context, id string) {
	m, err := r.Get(ctx, id)
	if err == nil {
		m.Logout(ctx)
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		r.log.Warn("delete persisted session", "session_id", id, "error", err)
	}

	r.mu.Lock()
	delete(r.managers, id)
	r.mu.Unlock()
}

// Sessions returns every persisted session record, for the admin surface.
func (r *SessionRegistry) Sessions(ctx context.Context) ([]domain.Session, error) {
	return r.repo.List(ctx)
}

// RevalidateAll rechecks every persisted session against the remote
// service. Sessions the service confirms as anonymous are evicted;
// confirmed ones get a refreshed identity snapshot. Sessions are kept
// when the service cannot be reached, so an outage does not log
// everyone out.
func (r *SessionRegistry) RevalidateAll(ctx context.Context) {
	sessions, err := r.repo.List(ctx)
	if err != nil {
		r.log.Error("list sessions for revalidation", "error", err)
		return
	}

	for _, session := range sessions {
		m, err := r.Get(ctx, session.ID)
		if err != nil {
			continue
		}

		user, err := m.Revalidate(ctx)
		if err != nil {
			r.log.Warn("session revalidation skipped, service unreachable", "session_id", session.ID, "error", err)
			continue
		}
		if user == nil {
			r.log.Info("session no longer valid, evicting", "session_id", session.ID)
			r.Drop(ctx, session.ID)
			continue
		}

		session.User = *user
		session.LastValidatedAt = time.Now().UTC()
		if err := r.repo.Update(ctx, &session); err != nil {
			r.log.Warn("update session snapshot", "session_id", session.ID, "error", err)
		}
	}
}
