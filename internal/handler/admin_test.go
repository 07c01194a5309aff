package handler_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestAdminSessions_RequiresAdminRole(t *testing.T) {
	remote := &fakeRemote{loginUser: regularUser(), loginToken: "tok-1"}
	mux := newTestMux(t, remote)

	cookie := login(t, mux, "ana@gmail.com")

	rec := doJSON(t, mux, http.MethodGet, "/api/admin/sessions", "", cookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a regular user, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminSessions_RequiresSession(t *testing.T) {
	mux := newTestMux(t, &fakeRemote{})

	rec := doJSON(t, mux, http.MethodGet, "/api/admin/sessions", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}
}

func TestAdminSessions_ListsActiveSessions(t *testing.T) {
	remote := &fakeRemote{loginUser: adminUser(), loginToken: "tok-admin"}
	mux := newTestMux(t, remote)

	cookie := login(t, mux, testAdminEmail)

	rec := doJSON(t, mux, http.MethodGet, "/api/admin/sessions", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Sessions []struct {
			ID   string `json:"id"`
			User struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(resp.Sessions))
	}
	if resp.Sessions[0].User.Email != testAdminEmail || resp.Sessions[0].User.Role != "admin" {
		t.Fatalf("unexpected session entry: %+v", resp.Sessions[0])
	}

	// The upstream token never appears on the admin surface.
	if strings.Contains(rec.Body.String(), "tok-admin") {
		t.Fatalf("response must not expose the upstream token: %s", rec.Body.String())
	}
}

func TestAdminDropSession_ForcesLogout(t *testing.T) {
	remote := &fakeRemote{loginUser: adminUser(), loginToken: "tok-admin"}
	mux := newTestMux(t, remote)

	adminCookie := login(t, mux, testAdminEmail)

	// A second session to drop.
	remote.loginUser = regularUser()
	remote.loginToken = "tok-user"
	userCookie := login(t, mux, "ana@gmail.com")

	rec := doJSON(t, mux, http.MethodGet, "/api/admin/sessions", "", adminCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Sessions []struct {
			ID   string `json:"id"`
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var targetID string
	for _, s := range resp.Sessions {
		if s.User.Email == "ana@gmail.com" {
			targetID = s.ID
		}
	}
	if targetID == "" {
		t.Fatal("expected the user's session in the listing")
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/admin/sessions/"+targetID, "", adminCookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	// The dropped session no longer passes the route guard.
	rec = doJSON(t, mux, http.MethodPost, "/api/comments",
		`{"content":"oi","reportId":1}`, userCookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after forced logout, got %d", rec.Code)
	}
}
