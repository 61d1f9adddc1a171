package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// AboutService edits the singleton about section. It has no collection:
// Load reads the public copy and Submit always upserts.
type AboutService struct {
	store ports.AboutStore
	form  AboutForm

	mu      sync.Mutex
	state   *domain.FormState
	current *domain.About
	pending bool
}

// NewAboutService creates a new about service
func NewAboutService(store ports.AboutStore) *AboutService {
	f := AboutForm{}
	return &AboutService{
		store: store,
		form:  f,
		state: f.NewState(),
	}
}

// Load fetches the about section and fills the form with it
func (s *AboutService) Load(ctx context.Context) (*domain.About, error) {
	s.mu.Lock()
	generation := s.state.Generation
	s.mu.Unlock()

	about, err := s.store.About(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load about section: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Generation != generation {
		return nil, domain.ErrStaleResponse
	}
	if err := s.fillLocked(about); err != nil {
		return nil, err
	}
	return about, nil
}

func (s *AboutService) fillLocked(about *domain.About) error {
	s.state.Reset()
	s.current = about
	if about == nil || about.IsEmpty() {
		return nil
	}
	return s.form.Populate(s.state, *about)
}

// Submit validates and upserts the about section
func (s *AboutService) Submit(ctx context.Context) (*domain.About, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, domain.ErrSubmitPending
	}
	if err := s.state.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	payload, err := s.form.Payload(s.state)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	generation := s.state.Generation
	s.pending = true
	s.mu.Unlock()

	saved, err := s.store.SaveAbout(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		return nil, fmt.Errorf("failed to save about section: %w", err)
	}
	if s.state.Generation != generation {
		return saved, domain.ErrStaleResponse
	}
	if err := s.fillLocked(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// Reset implements Resetter
func (s *AboutService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
	s.current = nil
}

// Current returns the last loaded or saved about section
func (s *AboutService) Current() *domain.About {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetField assigns a form field
func (s *AboutService) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Set(name, value)
}

// Field returns a form field value
func (s *AboutService) Field(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Get(name)
}

// State returns a copy of the form for rendering
func (s *AboutService) State() domain.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Pending reports whether a submit is in flight
func (s *AboutService) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
