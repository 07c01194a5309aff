package handler

import (
	"context"
	"net/http"

	"github.com/tolonipescarias/portal/internal/domain"
	"github.com/tolonipescarias/portal/internal/service"
)

// SessionCookieName is the portal session cookie.
const SessionCookieName = "portal_session"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionContext carries the resolved portal session through the request.
type SessionContext struct {
	ID      string
	Manager *service.SessionManager
}

// SessionFromContext extracts the portal session from the request context.
// Returns nil when the request is anonymous.
func SessionFromContext(ctx context.Context) *SessionContext {
	sc, _ := ctx.Value(sessionContextKey).(*SessionContext)
	return sc
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	sc := SessionFromContext(ctx)
	if sc == nil {
		return nil
	}
	return sc.Manager.User()
}

// RequireSession is middleware that protects routes requiring an
// authenticated session. It reads the portal cookie, verifies the signed
// token, resolves the session in the registry, and injects it into the
// request context. Returns 401 for unauthenticated requests.
func RequireSession(registry *service.SessionRegistry, cookies *service.CookieTokenMaker, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, err := resolveSession(r, registry, cookies)
		if err != nil || sc.Manager.User() == nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin is middleware for the admin section. It must wrap a
// handler already behind RequireSession; non-admin users get 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !UserFromContext(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "Administrator access required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func resolveSession(r *http.Request, registry *service.SessionRegistry, cookies *service.CookieTokenMaker) (*SessionContext, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, err
	}

	sessionID, err := cookies.Verify(cookie.Value)
	if err != nil {
		return nil, err
	}

	m, err := registry.Get(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionContext{ID: sessionID, Manager: m}, nil
}
