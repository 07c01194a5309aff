package remote

import (
	"context"
	"net/http"
)

// Content submissions are validated and sanitized by the portal before
// forwarding; the remote service remains the authority and revalidates.

// SubmitReport forwards a fishing report on behalf of the session.
func (c *Client) SubmitReport(ctx context.Context, token string, report any) (string, error) {
	return c.forward(ctx, token, "/reports", report)
}

// SubmitComment forwards a comment on a report.
func (c *Client) SubmitComment(ctx context.Context, token string, comment any) (string, error) {
	return c.forward(ctx, token, "/comments", comment)
}

// SubmitContact forwards a contact-form message. No session required.
func (c *Client) SubmitContact(ctx context.Context, message any) (string, error) {
	return c.forward(ctx, "", "/contact", message)
}

// UpdateProfile forwards a profile update on behalf of the session.
func (c *Client) UpdateProfile(ctx context.Context, token string, profile any) (string, error) {
	return c.forward(ctx, token, "/profile", profile)
}

// ChangePassword forwards a password change on behalf of the session.
func (c *Client) ChangePassword(ctx context.Context, token string, change any) (string, error) {
	return c.forward(ctx, token, "/profile/password", change)
}

func (c *Client) forward(ctx context.Context, token, path string, payload any) (string, error) {
	env, err := c.do(ctx, http.MethodPost, path, token, payload)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", failure(env)
	}
	return env.Message, nil
}
