package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

const (
	imagesKey = "images"
)

// formDocument is the YAML view of a form edited with $EDITOR or --file
type formDocument struct {
	Fields    map[string]string
	Images    []string
	Tags      []string
	HasImages bool
	HasTags   bool
}

// encodeFormDocument writes the form as YAML in field order, with labels as comments
func encodeFormDocument(state domain.FormState, tagsKey string) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, spec := range state.Specs {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: spec.Name, HeadComment: fieldComment(spec)}
		value := &yaml.Node{Kind: yaml.ScalarNode, Value: state.Get(spec.Name)}
		switch spec.Kind {
		case domain.FieldMultiline:
			value.Style = yaml.LiteralStyle
		case domain.FieldBool:
			value.Tag = "!!bool"
		case domain.FieldInt:
			value.Tag = "!!int"
			if value.Value == "" {
				value.Value = "0"
			}
		default:
			value.Tag = "!!str"
		}
		root.Content = append(root.Content, key, value)
	}

	if state.Tags != nil {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: tagsKey, HeadComment: "one entry per item"},
			sequenceNode(state.Tags.Values()))
	}
	if state.Images != nil {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: imagesKey, HeadComment: "gallery order is display order; the first image is the cover"},
			sequenceNode(state.Images.URLs()))
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}
	return out, nil
}

func fieldComment(spec domain.FieldSpec) string {
	var notes []string
	if spec.Required {
		notes = append(notes, "required")
	}
	if spec.MaxLen > 0 {
		notes = append(notes, "max "+strconv.Itoa(spec.MaxLen))
	}
	if spec.Kind == domain.FieldURL {
		notes = append(notes, "http(s) URL")
	}
	if len(notes) == 0 {
		return spec.Label
	}
	return spec.Label + " (" + strings.Join(notes, ", ") + ")"
}

func sequenceNode(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	if len(values) == 0 {
		seq.Style = yaml.FlowStyle
	}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	return seq
}

// decodeFormDocument parses YAML produced by encodeFormDocument (or written by hand)
func decodeFormDocument(data []byte, tagsKey string) (*formDocument, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	doc := &formDocument{Fields: map[string]string{}}
	for key, value := range raw {
		switch key {
		case imagesKey:
			list, err := stringList(key, value)
			if err != nil {
				return nil, err
			}
			doc.Images, doc.HasImages = list, true
		case tagsKey:
			list, err := stringList(key, value)
			if err != nil {
				return nil, err
			}
			doc.Tags, doc.HasTags = list, true
		default:
			doc.Fields[key] = scalarString(value)
		}
	}
	return doc, nil
}

func stringList(key string, value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, domain.NewValidationError(key, "must be a list")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, scalarString(item))
	}
	return out, nil
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimRight(v, "\n")
	default:
		return fmt.Sprint(v)
	}
}

// editFormDocument round-trips the form through the user's editor
func editFormDocument(state domain.FormState, tagsKey string) (*formDocument, error) {
	content, err := encodeFormDocument(state, tagsKey)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "folio-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	if err := OpenInEditor(tmp.Name()); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read edited form: %w", err)
	}
	return decodeFormDocument(edited, tagsKey)
}
