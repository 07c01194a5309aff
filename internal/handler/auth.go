package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tolonipescarias/portal/internal/domain"
	"github.com/tolonipescarias/portal/internal/service"
	"github.com/tolonipescarias/portal/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	registry     *service.SessionRegistry
	cookies      *service.CookieTokenMaker
	limiter      *service.AttemptLimiter
	validate     *validation.Validator
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(registry *service.SessionRegistry, cookies *service.CookieTokenMaker, limiter *service.AttemptLimiter, validate *validation.Validator, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		registry:     registry,
		cookies:      cookies,
		limiter:      limiter,
		validate:     validate,
		cookieSecure: cookieSecure,
	}
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if msgs := h.validate.Check(&req); len(msgs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, strings.Join(msgs, ", "))
		return
	}

	limitKey := "login:" + strings.ToLower(req.Email)
	if !h.limiter.Allow(limitKey) {
		writeError(w, http.StatusTooManyRequests, "Too many login attempts. Please wait a minute and try again.")
		return
	}

	m := h.registry.NewManager()
	if err := m.Login(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailNotVerified):
			writeError(w, http.StatusUnauthorized, "Please verify your email before logging in.")
		case errors.Is(err, domain.ErrUnavailable):
			slog.Error("login upstream unavailable", "error", err)
			writeError(w, http.StatusBadGateway, "The service is temporarily unavailable. Please try again.")
		default:
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		}
		return
	}
	h.limiter.Reset(limitKey)

	sessionID, err := h.registry.Establish(r.Context(), m)
	if err != nil {
		slog.Error("establish session", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	token, err := h.cookies.Issue(sessionID)
	if err != nil {
		slog.Error("issue session cookie", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	h.setSessionCookie(w, token, int(h.cookies.TTL().Seconds()))

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(m.User()),
	})
}

// HandleRegister processes a JSON registration request. On success the
// user is not logged in; they must verify their email first.
// POST /api/auth/register
// Request:  {"name":"...","email":"...","password":"..."}
// Response: {"message": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if msgs := h.validate.Check(&req); len(msgs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, strings.Join(msgs, ", "))
		return
	}

	msg, err := h.registry.NewManager().Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDomainNotAllowed):
			writeError(w, http.StatusUnprocessableEntity, "Registration is limited to approved email providers.")
		case errors.Is(err, domain.ErrUnavailable):
			slog.Error("register upstream unavailable", "error", err)
			writeError(w, http.StatusBadGateway, "The service is temporarily unavailable. Please try again.")
		default:
			writeError(w, http.StatusConflict, remoteMessage(err, "Registration failed."))
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": messageOrDefault(msg, "Account created. Please check your email to verify your address."),
	})
}

// HandleSession reports the current session state, revalidating it
// against the remote service. Always 200; never an error.
// GET /api/auth/session
// Response: {"authenticated": bool, "user": {...}?}
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sc, err := resolveSession(r, h.registry, h.cookies)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	user, err := sc.Manager.Revalidate(r.Context())
	if err != nil {
		// The service could not be reached; report anonymous but keep
		// the portal session so it recovers once the service is back.
		slog.Warn("session recheck failed", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	if user == nil {
		h.registry.Drop(r.Context(), sc.ID)
		h.setSessionCookie(w, "", -1)
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          toUserDTO(user),
	})
}

// HandleLogout drops the portal session and clears the cookie. Best
// effort upstream; always succeeds from the client's point of view.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sc, err := resolveSession(r, h.registry, h.cookies); err == nil {
		h.registry.Drop(r.Context(), sc.ID)
	}
	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// HandleResendVerification re-sends the verification mail.
// POST /api/auth/resend-verification
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	h.passthrough(w, r, func(email string) (string, error) {
		return h.registry.NewManager().ResendVerification(r.Context(), email)
	}, "Verification email sent.")
}

// HandleForgotPassword starts the password reset flow.
// POST /api/auth/forgot-password
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.passthrough(w, r, func(email string) (string, error) {
		return h.registry.NewManager().ForgotPassword(r.Context(), email)
	}, "If the address exists, a reset email has been sent.")
}

// HandleResetPassword completes the password reset flow.
// POST /api/auth/reset-password
// Request: {"token":"...","password":"..."}
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.Token) == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "Token and new password are required.")
		return
	}

	msg, err := h.registry.NewManager().ResetPassword(r.Context(), strings.TrimSpace(req.Token), req.Password)
	if err != nil {
		writeRemoteFailure(w, err, "Password reset failed.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": messageOrDefault(msg, "Password updated. You can now log in."),
	})
}

// passthrough handles the single-email flows that simply forward to the
// remote service.
func (h *AuthHandler) passthrough(w http.ResponseWriter, r *http.Request, call func(email string) (string, error), fallback string) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "Email is required.")
		return
	}

	msg, err := call(req.Email)
	if err != nil {
		writeRemoteFailure(w, err, fallback)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": messageOrDefault(msg, fallback)})
}

// writeRemoteFailure maps a remote error onto an HTTP response: 502 for
// transport failures, otherwise the server-reported message.
func writeRemoteFailure(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, domain.ErrUnavailable) {
		slog.Error("upstream unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "The service is temporarily unavailable. Please try again.")
		return
	}
	writeError(w, http.StatusUnprocessableEntity, remoteMessage(err, fallback))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// remoteMessage extracts the server-reported message from a remote
// failure, falling back to a generic message for anything else.
func remoteMessage(err error, fallback string) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Msg != "" {
		return re.Msg
	}
	return fallback
}

func messageOrDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
