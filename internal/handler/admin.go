package handler

import (
	"log/slog"
	"net/http"

	"github.com/tolonipescarias/portal/internal/service"
)

// AdminHandler serves the admin section of the portal.
type AdminHandler struct {
	registry *service.SessionRegistry
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(registry *service.SessionRegistry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

// HandleListSessions lists the active portal sessions.
// GET /api/admin/sessions
// Response: {"sessions": [...]}
func (h *AdminHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.registry.Sessions(r.Context())
	if err != nil {
		slog.Error("list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": toSessionDTOs(sessions),
	})
}

// HandleDropSession force-logs-out a portal session.
// DELETE /api/admin/sessions/{id}
// Response: 204 No Content
func (h *AdminHandler) HandleDropSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session id is required.")
		return
	}

	h.registry.Drop(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}
