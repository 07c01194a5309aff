package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tolonipescarias/portal/internal/config"
	"github.com/tolonipescarias/portal/internal/domain"
	"github.com/tolonipescarias/portal/internal/handler"
	"github.com/tolonipescarias/portal/internal/repository/sqlite"
	"github.com/tolonipescarias/portal/internal/service"
	"github.com/tolonipescarias/portal/internal/validation"
)

// fakeRemote is a scriptable stand-in for the remote service, covering
// both the auth surface and the content-forwarding surface.
type fakeRemote struct {
	loginUser  *domain.User
	loginToken string
	loginErr   error

	checkUser *domain.User
	checkErr  error

	registerMsg string
	registerErr error

	submitMsg string
	submitErr error

	loginCalls    int
	registerCalls int
	submitCalls   int
	logoutCalls   int

	// lastSubmitToken records the bearer token of the last forwarded
	// submission.
	lastSubmitToken string
}

func (f *fakeRemote) CheckSession(ctx context.Context, token string) (*domain.User, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return f.checkUser, nil
}

func (f *fakeRemote) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	u := *f.loginUser
	return &u, f.loginToken, nil
}

func (f *fakeRemote) Register(ctx context.Context, name, email, password string) (string, error) {
	f.registerCalls++
	return f.registerMsg, f.registerErr
}

func (f *fakeRemote) ResendVerification(ctx context.Context, email string) (string, error) {
	return "verification sent", nil
}

func (f *fakeRemote) ForgotPassword(ctx context.Context, email string) (string, error) {
	return "reset email sent", nil
}

func (f *fakeRemote) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return "password updated", nil
}

func (f *fakeRemote) Logout(ctx context.Context, token string) error {
	f.logoutCalls++
	return nil
}

func (f *fakeRemote) submit(token string) (string, error) {
	f.submitCalls++
	f.lastSubmitToken = token
	return f.submitMsg, f.submitErr
}

func (f *fakeRemote) SubmitReport(ctx context.Context, token string, report any) (string, error) {
	return f.submit(token)
}

func (f *fakeRemote) SubmitComment(ctx context.Context, token string, comment any) (string, error) {
	return f.submit(token)
}

func (f *fakeRemote) SubmitContact(ctx context.Context, message any) (string, error) {
	return f.submit("")
}

func (f *fakeRemote) UpdateProfile(ctx context.Context, token string, profile any) (string, error) {
	return f.submit(token)
}

func (f *fakeRemote) ChangePassword(ctx context.Context, token string, change any) (string, error) {
	return f.submit(token)
}

const testAdminEmail = "admin@tolonipescarias.com"

func regularUser() *domain.User {
	return &domain.User{ID: 7, Name: "Ana Silva", Email: "ana@gmail.com", EmailVerified: true, Role: domain.RoleUser}
}

func adminUser() *domain.User {
	return &domain.User{ID: 1, Name: "Admin", Email: testAdminEmail, EmailVerified: true, Role: domain.RoleUser}
}

// newTestMux wires a full route table backed by the fake remote and a
// temporary session store.
func newTestMux(t *testing.T, remote *fakeRemote) *http.ServeMux {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	policy := config.Policy{
		AdminEmail:           testAdminEmail,
		AllowedDomains:       []string{"tolonipescarias.com", "gmail.com", "hotmail.com", "outlook.com", "yahoo.com"},
		RequireVerifiedEmail: true,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := service.NewSessionRegistry(remote, policy, db.Sessions(), log)
	cookies := service.NewCookieTokenMaker("test-secret-key-at-least-32-chars!!", time.Hour)
	limiter := service.NewAttemptLimiter(5, time.Minute)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, registry, cookies, limiter, validation.New(), remote, false)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// login performs a successful login and returns the portal session cookie.
func login(t *testing.T, mux *http.ServeMux, email string) *http.Cookie {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/api/auth/login",
		`{"email":"`+email+`","password":"Abcdef12"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == handler.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}
