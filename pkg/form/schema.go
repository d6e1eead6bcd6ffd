// Package form models the information-request form: its declarative schema,
// the payload the user and wallet converge on, and the reconciliation of
// wallet-sourced claims with schema defaults.
package form

import (
	"fmt"
	"strings"

	"github.com/sirosfoundation/vcionboard/pkg/defaults"
)

// Field types with special handling
const (
	TypeText  = "text"
	TypeDate  = "date"
	TypeEmail = "email"
)

// Field describes a single form input
type Field struct {
	// Key is the claim name the field maps to; unique across the schema
	Key string `yaml:"key" json:"key"`

	// ID is the UI identity of the input; defaults to Key
	ID string `yaml:"id,omitempty" json:"id,omitempty"`

	// Title is the label resolution key for the i18n layer
	Title string `yaml:"title,omitempty" json:"title,omitempty"`

	// Titles holds literal labels per locale when the source provides them
	Titles map[string]string `yaml:"titles,omitempty" json:"titles,omitempty"`

	// Description is optional help text
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Type is the input type (text, date, email, ...)
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// DefaultValue is a literal or a generator sentinel such as *RANDOM8
	DefaultValue string `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`

	// Optional fields never block submission
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// InputID returns the UI identity of the field
func (f Field) InputID() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Key
}

// InputType returns the input type, defaulting to text
func (f Field) InputType() string {
	if f.Type != "" {
		return f.Type
	}
	return TypeText
}

// Row is an ordered group of fields rendered side by side
type Row []Field

// Schema is the ordered set of rows making up a form
type Schema struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Rows        []Row  `yaml:"rows" json:"rows"`
}

// Fields returns all fields in row order
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	var fields []Field
	for _, row := range s.Rows {
		fields = append(fields, row...)
	}
	return fields
}

// Field looks up a field by key
func (s *Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields() {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the field keys in row order. Without a schema the fallback keys are returned.
func (s *Schema) Keys() []string {
	if s == nil {
		return append([]string(nil), FallbackKeys...)
	}
	fields := s.Fields()
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// RequiredKeys returns the keys of fields not marked optional
func (s *Schema) RequiredKeys() []string {
	if s == nil {
		return append([]string(nil), FallbackKeys...)
	}
	var keys []string
	for _, f := range s.Fields() {
		if !f.Optional {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Validate checks that every field has a key and that keys are unique
func (s *Schema) Validate() error {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool)
	for i, row := range s.Rows {
		if len(row) == 0 {
			return fmt.Errorf("form: row %d is empty", i)
		}
		for _, f := range row {
			key := strings.TrimSpace(f.Key)
			if key == "" {
				return fmt.Errorf("form: row %d has a field without key", i)
			}
			if seen[key] {
				return fmt.Errorf("form: duplicate field key: %s", key)
			}
			seen[key] = true
			if err := defaults.DefaultRegistry.Check(f.DefaultValue); err != nil {
				return fmt.Errorf("form: field %s: %w", key, err)
			}
		}
	}
	return nil
}

// FallbackSchema describes the fallback fields for display: first and last
// name side by side, then the email address.
func FallbackSchema() *Schema {
	return &Schema{
		Rows: []Row{
			{{Key: KeyFirstName}, {Key: KeyLastName}},
			{{Key: KeyEmail, Type: TypeEmail}},
		},
	}
}
