package handler

import (
	"net/http"

	"github.com/tolonipescarias/portal/internal/service"
	"github.com/tolonipescarias/portal/internal/validation"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Public routes
// are reachable without a session; protected routes sit behind
// RequireSession, and the admin section additionally behind RequireAdmin.
func RegisterRoutes(
	mux *http.ServeMux,
	registry *service.SessionRegistry,
	cookies *service.CookieTokenMaker,
	limiter *service.AttemptLimiter,
	validate *validation.Validator,
	contentAPI ContentAPI,
	cookieSecure bool,
) {
	auth := NewAuthHandler(registry, cookies, limiter, validate, cookieSecure)
	content := NewContentHandler(contentAPI, validate)
	admin := NewAdminHandler(registry)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth.
	mux.HandleFunc("POST /api/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/auth/register", auth.HandleRegister)
	mux.HandleFunc("GET /api/auth/session", auth.HandleSession)
	mux.HandleFunc("POST /api/auth/logout", auth.HandleLogout)
	mux.HandleFunc("POST /api/auth/resend-verification", auth.HandleResendVerification)
	mux.HandleFunc("POST /api/auth/forgot-password", auth.HandleForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", auth.HandleResetPassword)

	// Public content.
	mux.HandleFunc("POST /api/contact", content.HandleContact)

	// Protected content.
	protect := func(h http.Handler) http.Handler {
		return RequireSession(registry, cookies, h)
	}
	mux.Handle("POST /api/reports", protect(http.HandlerFunc(content.HandleCreateReport)))
	mux.Handle("POST /api/comments", protect(http.HandlerFunc(content.HandleCreateComment)))
	mux.Handle("PUT /api/profile", protect(http.HandlerFunc(content.HandleUpdateProfile)))
	mux.Handle("POST /api/profile/password", protect(http.HandlerFunc(content.HandleChangePassword)))

	// Admin section.
	mux.Handle("GET /api/admin/sessions", protect(RequireAdmin(http.HandlerFunc(admin.HandleListSessions))))
	mux.Handle("DELETE /api/admin/sessions/{id}", protect(RequireAdmin(http.HandlerFunc(admin.HandleDropSession))))

	// Everything else is a not-found page.
	mux.HandleFunc("/", handleNotFound)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Page not found.")
}
