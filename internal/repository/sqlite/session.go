package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tolonipescarias/portal/internal/domain"
)

// SessionRepository implements domain.SessionRepository using SQLite.
type SessionRepository struct {
	db *sql.DB
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, user_id, user_name, user_email, email_verified, role, created_at, last_validated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Token,
		session.User.ID, session.User.Name, session.User.Email, session.User.EmailVerified, string(session.User.Role),
		session.CreatedAt, session.LastValidatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	session := &domain.Session{}
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, user_id, user_name, user_email, email_verified, role, created_at, last_validated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.Token,
		&session.User.ID, &session.User.Name, &session.User.Email, &session.User.EmailVerified, &role,
		&session.CreatedAt, &session.LastValidatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query session by id: %w", err)
	}
	session.User.Role = domain.Role(role)
	return session, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		 SET token = ?, user_id = ?, user_name = ?, user_email = ?, email_verified = ?, role = ?, last_validated_at = ?
		 WHERE id = ?`,
		session.Token,
		session.User.ID, session.User.Name, session.User.Email, session.User.EmailVerified, string(session.User.Role),
		session.LastValidatedAt, session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, token, user_id, user_name, user_email, email_verified, role, created_at, last_validated_at
		 FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		var role string
		if err := rows.Scan(&session.ID, &session.Token,
			&session.User.ID, &session.User.Name, &session.User.Email, &session.User.EmailVerified, &role,
			&session.CreatedAt, &session.LastValidatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.User.Role = domain.Role(role)
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
