package domain

import (
	"context"
	"time"
)

// Session is a portal-side record of one browser's authenticated session.
// Token is the bearer token issued by the remote auth service; the user
// fields are a snapshot of the identity confirmed at the last validation.
type Session struct {
	ID              string
	Token           string
	User            User
	CreatedAt       time.Time
	LastValidatedAt time.Time
}

// SessionRepository defines persistence operations for portal sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Session, error)
}
