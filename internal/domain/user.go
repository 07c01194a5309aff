package domain

// Role identifies the access level of an authenticated user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the identity record confirmed by the remote auth service.
// It is owned by the session manager and mutated only through the
// login/register/logout/check-session operations.
type User struct {
	ID            int64
	Name          string
	Email         string
	EmailVerified bool
	Role          Role
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
