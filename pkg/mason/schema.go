package mason

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/swaggest/jsonschema-go"
)

// Input types inferred from a property schema.
const (
	InputText     = "text"
	InputNumber   = "number"
	InputCheckbox = "checkbox"
	InputDateTime = "datetime-local"
)

// Schema is the subset of JSON schema attached to a writable control:
// property descriptions and the required property set.
type Schema struct {
	schema jsonschema.Schema
}

// Property describes one editable field of a schema.
type Property struct {
	Name        string `json:"name"                  yaml:"name"`
	Title       string `json:"title,omitempty"       yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	InputType   string `json:"input_type"            yaml:"input_type"`
	Default     any    `json:"default,omitempty"     yaml:"default,omitempty"`
	ReadOnly    bool   `json:"read_only,omitempty"   yaml:"read_only,omitempty"`
}

// Label returns the text shown next to the input.
func (p Property) Label() string {
	switch {
	case p.Description != "":
		return p.Description
	case p.Title != "":
		return p.Title
	default:
		return p.Name
	}
}

// ParseSchema decodes a JSON schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema

	err := s.UnmarshalJSON(data)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	err := json.Unmarshal(data, &s.schema)
	if err != nil {
		return fmt.Errorf("parsing control schema: %w", err)
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(s.schema)
	if err != nil {
		return nil, fmt.Errorf("encoding control schema: %w", err)
	}

	return data, nil
}

// MarshalYAML renders the schema as its properties and required list.
func (s Schema) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"properties": s.Properties(),
		"required":   s.Required(),
	}, nil
}

// Properties returns the schema properties sorted by name.
func (s *Schema) Properties() []Property {
	if s == nil || len(s.schema.Properties) == 0 {
		return nil
	}

	names := make([]string, 0, len(s.schema.Properties))
	for name := range s.schema.Properties {
		names = append(names, name)
	}

	slices.Sort(names)

	props := make([]Property, 0, len(names))

	for _, name := range names {
		prop := Property{Name: name, InputType: InputText}

		sub := s.schema.Properties[name].TypeObject
		if sub != nil {
			if sub.Description != nil {
				prop.Description = *sub.Description
			}

			if sub.Title != nil {
				prop.Title = *sub.Title
			}

			if sub.Default != nil {
				prop.Default = *sub.Default
			}

			if sub.ReadOnly != nil {
				prop.ReadOnly = *sub.ReadOnly
			}

			prop.InputType = inputType(sub)
		}

		props = append(props, prop)
	}

	return props
}

// Property returns a single named property.
func (s *Schema) Property(name string) (Property, bool) {
	for _, prop := range s.Properties() {
		if prop.Name == name {
			return prop, true
		}
	}

	return Property{}, false
}

// Required returns the names of mandatory properties.
func (s *Schema) Required() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.schema.Required)
}

// IsRequired reports whether the property is mandatory.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}

	return slices.Contains(s.schema.Required, name)
}

func inputType(sub *jsonschema.Schema) string {
	if sub.Format != nil && (*sub.Format == "date-time" || *sub.Format == "date") {
		return InputDateTime
	}

	if sub.Type == nil {
		return InputText
	}

	var kinds []jsonschema.SimpleType
	if sub.Type.SimpleTypes != nil {
		kinds = append(kinds, *sub.Type.SimpleTypes)
	}

	kinds = append(kinds, sub.Type.SliceOfSimpleTypeValues...)

	for _, kind := range kinds {
		switch kind {
		case jsonschema.Integer, jsonschema.Number:
			return InputNumber
		case jsonschema.Boolean:
			return InputCheckbox
		case jsonschema.String:
			return InputText
		}
	}

	return InputText
}
