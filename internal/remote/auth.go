package remote

import (
	"context"
	"net/http"

	"github.com/tolonipescarias/portal/internal/domain"
)

// CheckSession asks the remote service whether the given token still backs
// an authenticated session. A nil user with nil error means the session is
// anonymous; an error means the service could not be reached.
func (c *Client) CheckSession(ctx context.Context, token string) (*domain.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/session", token, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success || !env.Authenticated || env.User == nil {
		return nil, nil
	}
	return env.User.toDomain(), nil
}

// Login authenticates with the remote service and returns the confirmed
// identity together with the upstream session token.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, "", err
	}
	if !env.Success || env.User == nil {
		return nil, "", failure(env)
	}
	return env.User.toDomain(), env.Token, nil
}

// Register creates an account on the remote service. The user is not
// logged in by this call; email verification happens out of band.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", failure(env)
	}
	return env.Message, nil
}

// ResendVerification asks the remote service to re-send the verification mail.
func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	return c.simplePost(ctx, "/auth/resend-verification", map[string]string{"email": email})
}

// ForgotPassword starts the password reset flow for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.simplePost(ctx, "/auth/forgot-password", map[string]string{"email": email})
}

// ResetPassword completes the password reset flow with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return c.simplePost(ctx, "/auth/reset-password", map[string]string{
		"token":    token,
		"password": newPassword,
	})
}

// Logout invalidates the upstream session. Best effort; callers discard
// the session locally regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	env, err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return failure(env)
	}
	return nil
}

func (c *Client) simplePost(ctx context.Context, path string, payload any) (string, error) {
	env, err := c.do(ctx, http.MethodPost, path, "", payload)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", failure(env)
	}
	return env.Message, nil
}
