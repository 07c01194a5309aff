// Package remote implements the HTTP client for the Toloni Pescarias API.
// The portal never interprets credentials itself; every auth decision of
// record is made by the remote service, and this package only carries the
// requests and maps the response envelope onto domain values.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tolonipescarias/portal/internal/domain"
)

// Client talks to the remote API at a fixed base URL. The upstream session
// is a bearer token issued by login and replayed on session-scoped calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the uniform response shape of the remote API.
type envelope struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message,omitempty"`
	Authenticated bool         `json:"authenticated,omitempty"`
	Token         string       `json:"token,omitempty"`
	User          *userPayload `json:"user,omitempty"`
}

type userPayload struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Role          string `json:"role"`
}

func (p *userPayload) toDomain() *domain.User {
	role := domain.Role(p.Role)
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}
	return &domain.User{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		Role:          role,
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any) (*envelope, error) {
	var body *bytes.Buffer
	if payload != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrUnavailable, err)
	}
	return &env, nil
}

// failure converts an unsuccessful envelope into a domain error carrying
// the server-reported message.
func failure(env *envelope) error {
	if env.Message != "" {
		return &domain.RemoteError{Msg: env.Message}
	}
	return domain.ErrRemoteFailure
}
