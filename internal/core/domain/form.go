package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Mode is the editing mode of a form
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Binding is the tagged variant {Create} | {Edit, ID, Snapshot}.
// The zero value is Create. An Edit binding always carries a positive id.
type Binding struct {
	mode     Mode
	id       int
	snapshot Record
}

// CreateBinding returns the unbound state
func CreateBinding() Binding {
	return Binding{mode: ModeCreate}
}

// EditBinding binds a form to the record it was populated from
func EditBinding(id int, snapshot Record) (Binding, error) {
	if id <= 0 {
		return Binding{}, fmt.Errorf("cannot bind form to id %d", id)
	}
	return Binding{mode: ModeEdit, id: id, snapshot: snapshot}, nil
}

func (b Binding) Mode() Mode { return b.mode }

// ID returns the bound id and whether the form is bound
func (b Binding) ID() (int, bool) {
	if b.mode != ModeEdit {
		return 0, false
	}
	return b.id, true
}

// Snapshot returns the record the form was populated from (nil in Create mode)
func (b Binding) Snapshot() Record {
	return b.snapshot
}

// FieldKind describes how a field is edited and serialized
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldMultiline
	FieldURL
	FieldBool
	FieldInt
)

// FieldSpec declares one form field
type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Default  string
	MaxLen   int
}

// FormState is the client-side editing session for one entity kind
type FormState struct {
	Kind       Kind
	Binding    Binding
	Specs      []FieldSpec
	Values     map[string]string
	Images     *ImageList // nil unless the kind owns a gallery
	Tags       *TagList   // nil unless the kind owns a tag list
	Generation uint64
}

// NewFormState creates a Create-mode form with every field at its default
func NewFormState(kind Kind, specs []FieldSpec, withImages, withTags bool) *FormState {
	s := &FormState{
		Kind:  kind,
		Specs: specs,
	}
	if withImages {
		s.Images = &ImageList{}
	}
	if withTags {
		s.Tags = &TagList{}
	}
	s.resetValues()
	return s
}

// Reset returns the form to Create mode with defaults and empty owned lists
func (s *FormState) Reset() {
	s.Binding = CreateBinding()
	s.resetValues()
	if s.Images != nil {
		s.Images.Clear()
	}
	if s.Tags != nil {
		s.Tags.Clear()
	}
	s.Generation++
}

func (s *FormState) resetValues() {
	s.Values = make(map[string]string, len(s.Specs))
	for _, spec := range s.Specs {
		s.Values[spec.Name] = spec.Default
	}
}

// Spec returns the spec for a field name
func (s *FormState) Spec(name string) (FieldSpec, bool) {
	for _, spec := range s.Specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Set assigns a field value. Unknown fields are rejected.
func (s *FormState) Set(name, value string) error {
	spec, ok := s.Spec(name)
	if !ok {
		return fmt.Errorf("unknown field %q for %s", name, s.Kind)
	}
	if spec.Kind == FieldBool {
		value = strconv.FormatBool(parseBool(value))
	}
	s.Values[name] = value
	return nil
}

// Get returns a field value
func (s *FormState) Get(name string) string {
	return s.Values[name]
}

// Text returns the trimmed value of a field
func (s *FormState) Text(name string) string {
	return strings.TrimSpace(s.Values[name])
}

// Bool returns a boolean field
func (s *FormState) Bool(name string) bool {
	return parseBool(s.Values[name])
}

// Int returns an integer field, reporting a ValidationError when malformed
func (s *FormState) Int(name string) (int, error) {
	raw := s.Text(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidationError(name, "%q is not a whole number", raw)
	}
	return n, nil
}

// Validate checks required fields, length limits and URL fields
func (s *FormState) Validate() error {
	for _, spec := range s.Specs {
		value := s.Text(spec.Name)
		if spec.Required && value == "" {
			return NewValidationError(spec.Name, "%s is required", spec.Label)
		}
		if spec.MaxLen > 0 && utf8.RuneCountInString(value) > spec.MaxLen {
			return NewValidationError(spec.Name, "%s is too long (max %d characters)", spec.Label, spec.MaxLen)
		}
		switch spec.Kind {
		case FieldURL:
			if value != "" {
				if err := ValidateHTTPURL(spec.Name, value); err != nil {
					return err
				}
			}
		case FieldInt:
			if _, err := s.Int(spec.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Lines splits a multiline field into trimmed non-empty lines
func (s *FormState) Lines(name string) []string {
	var lines []string
	for _, line := range strings.Split(s.Values[name], "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Snapshot returns a deep copy safe to hand to renderers
func (s *FormState) Snapshot() FormState {
	c := *s
	c.Values = make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		c.Values[k] = v
	}
	if s.Images != nil {
		c.Images = NewImageList(s.Images.URLs())
	}
	if s.Tags != nil {
		c.Tags = NewTagList(s.Tags.Values())
	}
	return c
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
