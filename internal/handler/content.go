package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tolonipescarias/portal/internal/validation"
)

// ContentAPI is the remote surface used for forwarding validated
// submissions upstream.
type ContentAPI interface {
	SubmitReport(ctx context.Context, token string, report any) (string, error)
	SubmitComment(ctx context.Context, token string, comment any) (string, error)
	SubmitContact(ctx context.Context, message any) (string, error)
	UpdateProfile(ctx context.Context, token string, profile any) (string, error)
	ChangePassword(ctx context.Context, token string, change any) (string, error)
}

// ContentHandler validates and sanitizes form submissions, then forwards
// them to the remote service on behalf of the session. Validation here
// is a usability layer; the remote service revalidates everything.
type ContentHandler struct {
	api      ContentAPI
	validate *validation.Validator
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(api ContentAPI, validate *validation.Validator) *ContentHandler {
	return &ContentHandler{api: api, validate: validate}
}

// HandleCreateReport forwards a fishing report.
// POST /api/reports
func (h *ContentHandler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req validation.ReportInput
	h.forward(w, r, &req, func(token string) (string, error) {
		return h.api.SubmitReport(r.Context(), token, &req)
	}, "Report submitted.")
}

// HandleCreateComment forwards a comment on a report.
// POST /api/comments
func (h *ContentHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req validation.CommentInput
	h.forward(w, r, &req, func(token string) (string, error) {
		return h.api.SubmitComment(r.Context(), token, &req)
	}, "Comment posted.")
}

// HandleContact forwards a contact-form message. Public; no session needed.
// POST /api/contact
func (h *ContentHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req validation.ContactInput
	h.forward(w, r, &req, func(string) (string, error) {
		return h.api.SubmitContact(r.Context(), &req)
	}, "Message sent. We will get back to you soon.")
}

// HandleUpdateProfile forwards a profile update for the session's user.
// PUT /api/profile
func (h *ContentHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req validation.ProfileUpdateInput
	h.forward(w, r, &req, func(token string) (string, error) {
		return h.api.UpdateProfile(r.Context(), token, &req)
	}, "Profile updated.")
}

// HandleChangePassword forwards a password change for the session's user.
// POST /api/profile/password
func (h *ContentHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req validation.PasswordChangeInput
	h.forward(w, r, &req, func(token string) (string, error) {
		return h.api.ChangePassword(r.Context(), token, &req)
	}, "Password changed.")
}

// forward decodes into the schema, validates, and submits upstream with
// the session token (empty for public routes). Invalid input never
// reaches the remote service.
func (h *ContentHandler) forward(w http.ResponseWriter, r *http.Request, req validation.Input, submit func(token string) (string, error), fallback string) {
	if err := readJSON(r, req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if msgs := h.validate.Check(req); len(msgs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, strings.Join(msgs, ", "))
		return
	}

	var token string
	if sc := SessionFromContext(r.Context()); sc != nil {
		token = sc.Manager.Token()
	}

	msg, err := submit(token)
	if err != nil {
		slog.Error("forward submission", "path", r.URL.Path, "error", err)
		writeRemoteFailure(w, err, fallback)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": messageOrDefault(msg, fallback)})
}
