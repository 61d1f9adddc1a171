package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// AuthService handles login, logout and the logged-out reset
type AuthService struct {
	session  ports.SessionStore
	verifier ports.Verifier
	logger   *log.Logger

	mu    sync.Mutex
	forms []Resetter
}

// NewAuthService creates a new auth service
func NewAuthService(session ports.SessionStore, verifier ports.Verifier, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &AuthService{
		session:  session,
		verifier: verifier,
		logger:   logger,
	}
}

// Track registers forms that must be cleared whenever the session ends
func (s *AuthService) Track(forms ...Resetter) {
	s.mu.Lock()
	s.forms = append(s.forms, forms...)
	s.mu.Unlock()
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string
	Password string
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Username string
}

// Login stores the credential and verifies it against the backend.
// A rejected or unverifiable credential is not kept.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.NewValidationError("username", "username is required")
	}
	if req.Password == "" {
		return nil, domain.NewValidationError("password", "password is required")
	}

	if err := s.session.Save(username, domain.BasicToken(username, req.Password)); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	resp, err := s.verifier.Verify(ctx)
	if err != nil {
		s.discard()
		return nil, err
	}
	if !resp.Authenticated {
		s.discard()
		return nil, &domain.AuthError{Reason: "credentials rejected"}
	}

	if resp.Username != "" {
		username = resp.Username
	}
	return &LoginResponse{Username: username}, nil
}

func (s *AuthService) discard() {
	if err := s.session.Clear(); err != nil {
		s.logger.Printf("failed to clear session: %v", err)
	}
}

// Logout forgets the credential and resets every tracked form
func (s *AuthService) Logout() error {
	if err := s.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.resetForms()
	return nil
}

// HandleUnauthorized is the logged-out transition run when the backend
// rejects the credential; the gateway has already cleared it
func (s *AuthService) HandleUnauthorized() {
	s.logger.Printf("credential rejected by backend, logging out")
	s.resetForms()
}

func (s *AuthService) resetForms() {
	s.mu.Lock()
	forms := append([]Resetter(nil), s.forms...)
	s.mu.Unlock()

	for _, f := range forms {
		f.Reset()
	}
}

// Status describes the current session
type Status struct {
	LoggedIn bool
	Username string
}

// Status reports whether a credential is held
func (s *AuthService) Status() Status {
	_, ok := s.session.Token()
	if !ok {
		return Status{}
	}
	return Status{LoggedIn: true, Username: s.session.Username()}
}
