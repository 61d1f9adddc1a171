package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactRequest is a public contact form submission.
// Constraints mirror what the backend enforces so bad input never leaves the client.
type ContactRequest struct {
	Name     string  `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" form:"email" validate:"required,email"`
	Subject  *string `json:"subject" form:"subject" validate:"omitempty,max=200"`
	Message  string  `json:"message" form:"message" validate:"required,min=10,max=2000"`
	Honeypot *string `json:"honeypot" form:"website" validate:"omitempty,max=0"`
}

var contactValidator = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims user input in place
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
	if r.Subject != nil {
		r.Subject = StringPtr(*r.Subject)
	}
}

// Validate checks the request, returning the first violation as a ValidationError
func (r ContactRequest) Validate() error {
	err := contactValidator.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return NewValidationError(field, "is required")
	case "email":
		return NewValidationError(field, "is not a valid email address")
	case "min":
		return NewValidationError(field, "must be at least %s characters", fe.Param())
	case "max":
		if field == "honeypot" {
			return NewValidationError("", "invalid submission")
		}
		return NewValidationError(field, "must be at most %s characters", fe.Param())
	default:
		return NewValidationError(field, "is invalid")
	}
}
