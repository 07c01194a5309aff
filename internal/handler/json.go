package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the portal API's uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes data as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode portal response", "error", err)
	}
}

// writeError sends the portal's error envelope with a user-facing message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// readJSON decodes the request body into dst.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
