package services

import (
	"context"
	"fmt"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// ContactService sends public contact messages and manages received ones
type ContactService struct {
	sink     ports.ContactSink
	contacts ports.Collection[domain.Contact]
}

// NewContactService creates a new contact service
func NewContactService(sink ports.ContactSink, contacts ports.Collection[domain.Contact]) *ContactService {
	return &ContactService{
		sink:     sink,
		contacts: contacts,
	}
}

// Send validates a submission locally, then posts it.
// Invalid submissions never reach the network.
func (s *ContactService) Send(ctx context.Context, req domain.ContactRequest) (*domain.MessageResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.sink.SubmitContact(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return resp, nil
}

// List returns received submissions, newest first as the backend orders them
func (s *ContactService) List(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Delete removes a submission after confirmation
func (s *ContactService) Delete(ctx context.Context, id int, confirm ports.Confirmer) error {
	if confirm == nil || !confirm(fmt.Sprintf("Delete contact submission %d?", id)) {
		return domain.ErrNotConfirmed
	}
	if err := s.contacts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	return nil
}
