package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/folio-cli/internal/adapters/session"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports/mocks"
)

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name        string
		req         LoginRequest
		verifier    *mocks.MockVerifier
		expectError bool
		loggedIn    bool
		verifies    int
	}{
		{
			name:     "accepted",
			req:      LoginRequest{Username: "admin", Password: "pw"},
			verifier: &mocks.MockVerifier{Response: &domain.VerifyResponse{Authenticated: true, Username: "admin"}},
			loggedIn: true,
			verifies: 1,
		},
		{
			name:        "rejected by backend",
			req:         LoginRequest{Username: "admin", Password: "bad"},
			verifier:    &mocks.MockVerifier{Err: &domain.AuthError{Reason: "Invalid credentials"}},
			expectError: true,
			verifies:    1,
		},
		{
			name:        "unauthenticated reply",
			req:         LoginRequest{Username: "admin", Password: "pw"},
			verifier:    &mocks.MockVerifier{Response: &domain.VerifyResponse{Authenticated: false}},
			expectError: true,
			verifies:    1,
		},
		{
			name:        "missing username",
			req:         LoginRequest{Username: "  ", Password: "pw"},
			verifier:    &mocks.MockVerifier{},
			expectError: true,
		},
		{
			name:        "missing password",
			req:         LoginRequest{Username: "admin"},
			verifier:    &mocks.MockVerifier{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			svc := NewAuthService(store, tt.verifier, nil)

			resp, err := svc.Login(context.Background(), tt.req)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error")
				}
			} else if err != nil || resp.Username != "admin" {
				t.Fatalf("Login() = %+v, %v", resp, err)
			}

			if got := svc.Status().LoggedIn; got != tt.loggedIn {
				t.Errorf("LoggedIn = %v, want %v", got, tt.loggedIn)
			}
			if tt.verifier.Calls != tt.verifies {
				t.Errorf("verify calls = %d, want %d", tt.verifier.Calls, tt.verifies)
			}
		})
	}
}

func TestAuthService_LoginStoresBasicToken(t *testing.T) {
	store := session.NewMemoryStore()
	svc := NewAuthService(store, &mocks.MockVerifier{}, nil)

	if _, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	token, _ := store.Token()
	if token != domain.BasicToken("admin", "pw") {
		t.Errorf("token = %q", token)
	}
	if svc.Status().Username != "admin" {
		t.Errorf("Username = %q", svc.Status().Username)
	}
}

func TestAuthService_LogoutResetsForms(t *testing.T) {
	store := session.NewMemoryStore()
	_ = store.Save("admin", "tok")
	svc := NewAuthService(store, &mocks.MockVerifier{}, nil)

	projects, _ := newProjectController(domain.Project{ID: 1, Title: "A", Technologies: []string{"Go"}})
	about := NewAboutService(&mocks.MockAboutStore{Current: domain.About{ID: 1, Bio: "Hi"}})
	svc.Track(projects, about)

	_, _ = projects.OpenForEdit(context.Background(), 1)
	_, _ = about.Load(context.Background())

	if err := svc.Logout(); err != nil {
		t.Fatal(err)
	}
	if svc.Status().LoggedIn {
		t.Error("credential should be gone")
	}
	if _, bound := projects.BoundID(); bound {
		t.Error("logout should reset the project form")
	}
	if about.Field("bio") != "" {
		t.Error("logout should reset the about form")
	}
}

func TestAuthService_HandleUnauthorized(t *testing.T) {
	svc := NewAuthService(session.NewMemoryStore(), &mocks.MockVerifier{}, nil)
	projects, _ := newProjectController()
	_ = projects.SetField("title", "draft")
	svc.Track(projects)

	svc.HandleUnauthorized()
	if projects.Field("title") != "" {
		t.Error("unauthorized transition should reset forms")
	}
}

func TestAuthService_VerifyErrorKept(t *testing.T) {
	netErr := &domain.NetworkError{Op: "GET /api/admin/verify", Err: errors.New("refused")}
	svc := NewAuthService(session.NewMemoryStore(), &mocks.MockVerifier{Err: netErr}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "pw"})
	var got *domain.NetworkError
	if !errors.As(err, &got) {
		t.Errorf("error = %v, want NetworkError", err)
	}
}
