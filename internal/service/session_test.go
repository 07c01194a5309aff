package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tolonipescarias/portal/internal/config"
	"github.com/tolonipescarias/portal/internal/domain"
	"github.com/tolonipescarias/portal/internal/service"
)

// fakeAuthAPI is a scriptable stand-in for the remote auth service.
type fakeAuthAPI struct {
	loginUser  *domain.User
	loginToken string
	loginErr   error

	checkUser *domain.User
	checkErr  error

	registerMsg string
	registerErr error

	logoutErr error

	loginCalls    int
	registerCalls int
	checkCalls    int
	logoutCalls   int
}

func (f *fakeAuthAPI) CheckSession(ctx context.Context, token string) (*domain.User, error) {
	f.checkCalls++
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return f.checkUser, nil
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	u := *f.loginUser
	return &u, f.loginToken, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, name, email, password string) (string, error) {
	f.registerCalls++
	return f.registerMsg, f.registerErr
}

func (f *fakeAuthAPI) ResendVerification(ctx context.Context, email string) (string, error) {
	return "verification sent", nil
}

func (f *fakeAuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	return "reset email sent", nil
}

func (f *fakeAuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return "password updated", nil
}

func (f *fakeAuthAPI) Logout(ctx context.Context, token string) error {
	f.logoutCalls++
	return f.logoutErr
}

const adminEmail = "admin@tolonipescarias.com"

func testPolicy(requireVerified bool) config.Policy {
	return config.Policy{
		AdminEmail:           adminEmail,
		AllowedDomains:       []string{"tolonipescarias.com", "gmail.com", "hotmail.com", "outlook.com", "yahoo.com"},
		RequireVerifiedEmail: requireVerified,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func verifiedUser() *domain.User {
	return &domain.User{ID: 7, Name: "Ana Silva", Email: "ana@gmail.com", EmailVerified: true, Role: domain.RoleUser}
}

func TestSessionManager_Login_Success(t *testing.T) {
	api := &fakeAuthAPI{loginUser: verifiedUser(), loginToken: "tok-1"}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	if err := m.Login(context.Background(), "ana@gmail.com", "Abcdef12"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	user := m.User()
	if user == nil || user.Email != "ana@gmail.com" {
		t.Fatalf("expected confirmed user, got %+v", user)
	}
	if m.Token() != "tok-1" {
		t.Fatalf("expected upstream token to be stored, got %q", m.Token())
	}
	if m.Loading() {
		t.Fatal("loading should be false after completion")
	}
	if m.LastError() != "" {
		t.Fatalf("expected no recorded error, got %q", m.LastError())
	}
}

func TestSessionManager_Login_InvalidCredentials(t *testing.T) {
	api := &fakeAuthAPI{loginErr: domain.ErrRemoteFailure}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	err := m.Login(context.Background(), "ana@gmail.com", "wrong")
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if m.User() != nil {
		t.Fatal("user should remain absent after failed login")
	}
	if m.LastError() == "" {
		t.Fatal("failed login should record the error in state")
	}
	if m.Loading() {
		t.Fatal("loading should be false after completion")
	}
}

func TestSessionManager_Login_UnverifiedRejectedInProduction(t *testing.T) {
	user := verifiedUser()
	user.EmailVerified = false
	api := &fakeAuthAPI{loginUser: user, loginToken: "tok"}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	err := m.Login(context.Background(), user.Email, "Abcdef12")
	if !errors.Is(err, domain.ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
	if m.User() != nil {
		t.Fatal("unverified login must not establish a session")
	}
}

func TestSessionManager_Login_UnverifiedAllowedInDevelopment(t *testing.T) {
	user := verifiedUser()
	user.EmailVerified = false
	api := &fakeAuthAPI{loginUser: user, loginToken: "tok"}
	m := service.NewSessionManager(api, testPolicy(false), testLogger())

	if err := m.Login(context.Background(), user.Email, "Abcdef12"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if m.User() == nil {
		t.Fatal("expected session to be established in development")
	}
}

func TestSessionManager_Login_AdminBypassesVerification(t *testing.T) {
	admin := &domain.User{ID: 1, Name: "Admin", Email: adminEmail, EmailVerified: false, Role: domain.RoleUser}
	api := &fakeAuthAPI{loginUser: admin, loginToken: "tok"}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	if err := m.Login(context.Background(), adminEmail, "Abcdef12"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	user := m.User()
	if user == nil {
		t.Fatal("expected admin session to be established")
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected administrator role, got %q", user.Role)
	}
}

func TestSessionManager_Register_DisallowedDomainRejectedBeforeNetwork(t *testing.T) {
	api := &fakeAuthAPI{registerMsg: "ok"}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	_, err := m.Register(context.Background(), "Ana Silva", "ana@example.org", "Abcdef12")
	if !errors.Is(err, domain.ErrDomainNotAllowed) {
		t.Fatalf("expected ErrDomainNotAllowed, got %v", err)
	}
	if api.registerCalls != 0 {
		t.Fatalf("register must not reach the remote service, got %d calls", api.registerCalls)
	}
	if m.LastError() == "" {
		t.Fatal("rejection should be recorded in state")
	}
}

func TestSessionManager_Register_AdminEmailAlwaysAllowed(t *testing.T) {
	api := &fakeAuthAPI{registerMsg: "check your inbox"}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	msg, err := m.Register(context.Background(), "Admin", adminEmail, "Abcdef12")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if msg != "check your inbox" {
		t.Fatalf("unexpected message %q", msg)
	}
	if api.registerCalls != 1 {
		t.Fatalf("expected one remote call, got %d", api.registerCalls)
	}
}

func TestSessionManager_Register_DoesNotLogIn(t *testing.T) {
	api := &fakeAuthAPI{registerMsg: "ok"}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	if _, err := m.Register(context.Background(), "Ana Silva", "ana@gmail.com", "Abcdef12"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if m.User() != nil {
		t.Fatal("register must not establish a session")
	}
}

func TestSessionManager_CheckSession_TransportFailureTreatedAnonymous(t *testing.T) {
	api := &fakeAuthAPI{checkErr: domain.ErrUnavailable}
	m := service.Resume(api, testPolicy(true), testLogger(), "tok", *verifiedUser())

	user := m.CheckSession(context.Background())
	if user != nil {
		t.Fatal("transport failure should leave the session anonymous")
	}
	if m.User() != nil {
		t.Fatal("cached user should be cleared")
	}
	if m.Loading() {
		t.Fatal("loading should be false after completion")
	}
	if m.LastError() != "" {
		t.Fatalf("checkSession must not record an error, got %q", m.LastError())
	}
}

func TestSessionManager_Revalidate_TransportFailureKeepsIdentity(t *testing.T) {
	api := &fakeAuthAPI{checkErr: domain.ErrUnavailable}
	m := service.Resume(api, testPolicy(true), testLogger(), "tok", *verifiedUser())

	_, err := m.Revalidate(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if m.User() == nil {
		t.Fatal("transport failure must not discard the cached identity")
	}
}

func TestSessionManager_Revalidate_AnonymousClearsIdentity(t *testing.T) {
	api := &fakeAuthAPI{checkUser: nil}
	m := service.Resume(api, testPolicy(true), testLogger(), "tok", *verifiedUser())

	user, err := m.Revalidate(context.Background())
	if err != nil {
		t.Fatalf("Revalidate: %v", err)
	}
	if user != nil || m.User() != nil {
		t.Fatal("confirmed-anonymous session must clear the cached identity")
	}
}

func TestSessionManager_CheckSession_ConfirmsIdentity(t *testing.T) {
	api := &fakeAuthAPI{checkUser: verifiedUser()}
	m := service.Resume(api, testPolicy(true), testLogger(), "tok", domain.User{ID: 7, Email: "stale@gmail.com"})

	user := m.CheckSession(context.Background())
	if user == nil || user.Email != "ana@gmail.com" {
		t.Fatalf("expected refreshed identity, got %+v", user)
	}
}

func TestSessionManager_CheckSession_PromotesAdminRole(t *testing.T) {
	admin := &domain.User{ID: 1, Name: "Admin", Email: adminEmail, EmailVerified: true, Role: domain.RoleUser}
	api := &fakeAuthAPI{checkUser: admin}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	user := m.CheckSession(context.Background())
	if user == nil || user.Role != domain.RoleAdmin {
		t.Fatalf("expected administrator role, got %+v", user)
	}
}

func TestSessionManager_Logout_ClearsUserEvenWhenRemoteFails(t *testing.T) {
	api := &fakeAuthAPI{logoutErr: domain.ErrUnavailable}
	m := service.Resume(api, testPolicy(true), testLogger(), "tok", *verifiedUser())

	m.Logout(context.Background())

	if m.User() != nil {
		t.Fatal("logout must clear the user unconditionally")
	}
	if m.Token() != "" {
		t.Fatal("logout must discard the upstream token")
	}
	if api.logoutCalls != 1 {
		t.Fatalf("expected one remote logout attempt, got %d", api.logoutCalls)
	}
}

func TestSessionManager_ErrorClearedOnNextOperation(t *testing.T) {
	api := &fakeAuthAPI{loginErr: domain.ErrRemoteFailure, registerMsg: "ok"}
	m := service.NewSessionManager(api, testPolicy(true), testLogger())

	if err := m.Login(context.Background(), "ana@gmail.com", "wrong"); err == nil {
		t.Fatal("expected login to fail")
	}
	if m.LastError() == "" {
		t.Fatal("expected error to be recorded")
	}

	if _, err := m.Register(context.Background(), "Ana Silva", "ana@gmail.com", "Abcdef12"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if m.LastError() != "" {
		t.Fatalf("error must be cleared at the start of the next operation, got %q", m.LastError())
	}
}
