package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports/mocks"
)

func TestContactService_Send(t *testing.T) {
	tests := []struct {
		name        string
		req         domain.ContactRequest
		expectError bool
		sent        int
	}{
		{
			name: "valid message",
			req:  domain.ContactRequest{Name: " Ada ", Email: "ada@example.com", Message: "Hello, let's talk soon."},
			sent: 1,
		},
		{
			name:        "invalid email never sent",
			req:         domain.ContactRequest{Name: "Ada", Email: "ada", Message: "Hello, let's talk soon."},
			expectError: true,
		},
		{
			name:        "short message never sent",
			req:         domain.ContactRequest{Name: "Ada", Email: "ada@example.com", Message: "hey"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &mocks.MockContactSink{}
			svc := NewContactService(sink, mocks.NewMockCollection[domain.Contact]())

			_, err := svc.Send(context.Background(), tt.req)
			if (err != nil) != tt.expectError {
				t.Fatalf("Send() error = %v", err)
			}
			if len(sink.Requests) != tt.sent {
				t.Errorf("sent %d, want %d", len(sink.Requests), tt.sent)
			}
			if tt.sent > 0 && sink.Requests[0].Name != "Ada" {
				t.Errorf("request not normalized: %+v", sink.Requests[0])
			}
		})
	}
}

func TestContactService_ListAndDelete(t *testing.T) {
	coll := mocks.NewMockCollection(
		domain.Contact{ID: 1, Name: "A", Email: "a@x.io"},
		domain.Contact{ID: 2, Name: "B", Email: "b@x.io"},
	)
	svc := NewContactService(&mocks.MockContactSink{}, coll)

	contacts, err := svc.List(context.Background())
	if err != nil || len(contacts) != 2 {
		t.Fatalf("List() = %v, %v", contacts, err)
	}

	if err := svc.Delete(context.Background(), 1, no); !errors.Is(err, domain.ErrNotConfirmed) {
		t.Errorf("Delete() unconfirmed = %v", err)
	}
	if err := svc.Delete(context.Background(), 1, yes); err != nil {
		t.Fatal(err)
	}
	contacts, _ = svc.List(context.Background())
	if len(contacts) != 1 || contacts[0].ID != 2 {
		t.Errorf("contacts after delete = %+v", contacts)
	}
	if err := svc.Delete(context.Background(), 42, yes); domain.StatusOf(err) != 404 {
		t.Errorf("Delete(missing) = %v", err)
	}
}
