package handler

import (
	"time"

	"github.com/tolonipescarias/portal/internal/domain"
)

// UserDTO is the JSON representation of an authenticated user.
type UserDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Role          string `json:"role"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Role:          string(u.Role),
	}
}

// SessionDTO is the JSON representation of a portal session, as shown on
// the admin surface. The upstream token is never exposed.
type SessionDTO struct {
	ID              string  `json:"id"`
	User            UserDTO `json:"user"`
	CreatedAt       string  `json:"createdAt"`
	LastValidatedAt string  `json:"lastValidatedAt"`
}

func toSessionDTO(s *domain.Session) SessionDTO {
	return SessionDTO{
		ID:              s.ID,
		User:            toUserDTO(&s.User),
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		LastValidatedAt: s.LastValidatedAt.Format(time.RFC3339),
	}
}

func toSessionDTOs(sessions []domain.Session) []SessionDTO {
	dtos := make([]SessionDTO, len(sessions))
	for i := range sessions {
		dtos[i] = toSessionDTO(&sessions[i])
	}
	return dtos
}
