// Package form turns a writable control's schema into an editable form and
// turns submitted values back into a payload for the navigator.
package form

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/nearby-client/pkg/mason"
)

// Intent tells the navigator which write operation a submission is for.
type Intent string

const (
	// IntentCreate submissions go through Navigator.CreateResource.
	IntentCreate Intent = "create"
	// IntentUpdate submissions go through Navigator.Activate.
	IntentUpdate Intent = "update"
)

// Static errors for err113 compliance.
var (
	ErrRequiredField = errors.New("required field is empty")
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidBool   = errors.New("invalid boolean")
	ErrNilForm       = errors.New("nil form")
)

// Field is one labelled input of a form.
type Field struct {
	Name      string `json:"name"                yaml:"name"`
	Label     string `json:"label"               yaml:"label"`
	InputType string `json:"input_type"          yaml:"input_type"`
	Required  bool   `json:"required,omitempty"  yaml:"required,omitempty"`
	ReadOnly  bool   `json:"read_only,omitempty" yaml:"read_only,omitempty"`
	Value     string `json:"value,omitempty"     yaml:"value,omitempty"`
}

// Descriptor is a form synthesized from a control. Action and Method come
// from the control that produced it.
type Descriptor struct {
	Action string  `json:"action"          yaml:"action"`
	Method string  `json:"method"          yaml:"method"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields"          yaml:"fields"`
	Intent Intent  `json:"intent"          yaml:"intent"`

	control mason.Control
}

// Submission is a collected form ready to be sent.
type Submission struct {
	Control mason.Control
	Payload map[string]interface{}
	Intent  Intent
}

// Option customizes a built form.
type Option func(*Descriptor)

// WithReadOnly shows value as a read-only field. An existing schema field of
// the same name is marked read-only instead of being duplicated.
func WithReadOnly(name, label, value string) Option {
	return func(d *Descriptor) {
		for i := range d.Fields {
			if d.Fields[i].Name == name {
				d.Fields[i].ReadOnly = true
				d.Fields[i].Required = false
				d.Fields[i].Value = value

				return
			}
		}

		d.Fields = append(d.Fields, Field{
			Name:      name,
			Label:     label,
			InputType: mason.InputText,
			ReadOnly:  true,
			Value:     value,
		})
	}
}

// Build emits one field per schema property of ctl, labelled with the
// property description and marked required from the schema's required list.
// values pre-fill fields by name.
func Build(ctl mason.Control, values map[string]string, opts ...Option) *Descriptor {
	method := strings.ToUpper(strings.TrimSpace(ctl.Method))
	if method == "" {
		method = http.MethodGet
	}

	descriptor := &Descriptor{
		Action:  ctl.Href,
		Method:  method,
		Title:   ctl.Title,
		Fields:  []Field{},
		Intent:  intentFor(method),
		control: ctl,
	}

	for _, prop := range ctl.Schema.Properties() {
		field := Field{
			Name:      prop.Name,
			Label:     prop.Label(),
			InputType: prop.InputType,
			Required:  ctl.Schema.IsRequired(prop.Name),
			ReadOnly:  prop.ReadOnly,
		}

		if value, ok := values[prop.Name]; ok {
			field.Value = value
		} else if prop.Default != nil {
			field.Value = fmt.Sprint(prop.Default)
		}

		descriptor.Fields = append(descriptor.Fields, field)
	}

	for _, opt := range opts {
		opt(descriptor)
	}

	return descriptor
}

func intentFor(method string) Intent {
	if method == http.MethodPost {
		return IntentCreate
	}

	return IntentUpdate
}

// Control returns the control the form was built from.
func (d *Descriptor) Control() mason.Control {
	return d.control
}

// Field returns the named field.
func (d *Descriptor) Field(name string) (Field, bool) {
	if d == nil {
		return Field{}, false
	}

	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}

	return Field{}, false
}

// Editable returns the fields a user can fill in.
func (d *Descriptor) Editable() []Field {
	if d == nil {
		return nil
	}

	var fields []Field

	for _, field := range d.Fields {
		if !field.ReadOnly {
			fields = append(fields, field)
		}
	}

	return fields
}

// Submit collects values for the editable fields into a payload keyed by
// field name. A field missing from values keeps its pre-filled value. Empty
// optional fields are left out of the payload. Submit performs no I/O.
func (d *Descriptor) Submit(values map[string]string) (Submission, error) {
	if d == nil {
		return Submission{}, ErrNilForm
	}

	payload := make(map[string]interface{}, len(d.Fields))

	for _, field := range d.Editable() {
		raw, ok := values[field.Name]
		if !ok {
			raw = field.Value
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			if field.Required {
				return Submission{}, fmt.Errorf("%w: %s", ErrRequiredField, field.Label)
			}

			continue
		}

		value, err := convert(field, raw)
		if err != nil {
			return Submission{}, err
		}

		payload[field.Name] = value
	}

	return Submission{
		Control: d.control,
		Payload: payload,
		Intent:  d.Intent,
	}, nil
}

func convert(field Field, raw string) (interface{}, error) {
	switch field.InputType {
	case mason.InputNumber:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}

		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q", ErrInvalidNumber, field.Label, raw)
		}

		return f, nil
	case mason.InputCheckbox:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q", ErrInvalidBool, field.Label, raw)
		}

		return b, nil
	default:
		return raw, nil
	}
}
