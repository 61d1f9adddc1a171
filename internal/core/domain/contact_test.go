package domain

import (
	"errors"
	"strings"
	"testing"
)

func validContact() ContactRequest {
	return ContactRequest{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "Hello there, I'd like to chat.",
	}
}

func TestContactRequest_Validate(t *testing.T) {
	long := strings.Repeat("x", 2001)
	bot := "http://spam"
	empty := ""

	tests := []struct {
		name   string
		mutate func(*ContactRequest)
		field  string
		ok     bool
	}{
		{"valid", func(r *ContactRequest) {}, "", true},
		{"empty honeypot", func(r *ContactRequest) { r.Honeypot = &empty }, "", true},
		{"missing name", func(r *ContactRequest) { r.Name = "" }, "name", false},
		{"short name", func(r *ContactRequest) { r.Name = "A" }, "name", false},
		{"bad email", func(r *ContactRequest) { r.Email = "not-an-email" }, "email", false},
		{"short message", func(r *ContactRequest) { r.Message = "hi" }, "message", false},
		{"long message", func(r *ContactRequest) { r.Message = long }, "message", false},
		{"long subject", func(r *ContactRequest) { s := strings.Repeat("s", 201); r.Subject = &s }, "subject", false},
		{"honeypot filled", func(r *ContactRequest) { r.Honeypot = &bot }, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validContact()
			tt.mutate(&req)
			err := req.Validate()
			if tt.ok {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("field = %q, want %q (%v)", vErr.Field, tt.field, err)
			}
		})
	}
}

func TestContactRequest_Normalize(t *testing.T) {
	blank := "   "
	req := ContactRequest{Name: "  Ada ", Email: " ada@example.com ", Message: "  hello world! ", Subject: &blank}
	req.Normalize()

	if req.Name != "Ada" || req.Email != "ada@example.com" || req.Message != "hello world!" {
		t.Errorf("Normalize() = %+v", req)
	}
	if req.Subject != nil {
		t.Error("blank subject should become nil")
	}
}
