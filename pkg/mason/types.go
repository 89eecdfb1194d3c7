package mason

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ControlName identifies a hypermedia control inside "@controls".
type ControlName string

// Known control names.
const (
	ControlSelf             ControlName = "self"
	ControlCollection       ControlName = "collection"
	ControlEdit             ControlName = "edit"
	ControlNext             ControlName = "next"
	ControlPrev             ControlName = "prev"
	ControlUp               ControlName = "up"
	ControlProfile          ControlName = "profile"
	ControlAddArea          ControlName = "nearby:add-area"
	ControlEditArea         ControlName = "nearby:edit-area"
	ControlDeleteArea       ControlName = "nearby:delete-area"
	ControlAreasCollection  ControlName = "nearby:areas-collection"
	ControlEventsBy         ControlName = "nearby:events-by"
	ControlAreaMeasurements ControlName = "nearby:measurements"
)

var knownControls = map[ControlName]struct{}{
	ControlSelf:             {},
	ControlCollection:       {},
	ControlEdit:             {},
	ControlNext:             {},
	ControlPrev:             {},
	ControlUp:               {},
	ControlProfile:          {},
	ControlAddArea:          {},
	ControlEditArea:         {},
	ControlDeleteArea:       {},
	ControlAreasCollection:  {},
	ControlEventsBy:         {},
	ControlAreaMeasurements: {},
}

// Known reports whether the name is one of the controls this client understands.
func (n ControlName) Known() bool {
	_, ok := knownControls[n]

	return ok
}

// Static errors for err113 compliance.
var (
	ErrEmptyBody         = errors.New("empty representation body")
	ErrNotAnObject       = errors.New("representation is not a JSON object")
	ErrMissingHref       = errors.New("control has no href")
	ErrNilRepresentation = errors.New("nil representation")
)

// Control is a server-declared affordance attached to a representation.
type Control struct {
	Href     string  `json:"href"               yaml:"href"`
	Method   string  `json:"method,omitempty"   yaml:"method,omitempty"`
	Title    string  `json:"title,omitempty"    yaml:"title,omitempty"`
	Encoding string  `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Schema   *Schema `json:"schema,omitempty"   yaml:"schema,omitempty"`
}

// UnmarshalJSON decodes a control and defaults its method to GET.
func (c *Control) UnmarshalJSON(data []byte) error {
	type rawControl Control

	var raw rawControl

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("parsing control: %w", err)
	}

	*c = Control(raw)
	c.Method = normalizeMethod(c.Method)

	return nil
}

// IsWrite reports whether the control changes server state.
func (c Control) IsWrite() bool {
	switch normalizeMethod(c.Method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Validate checks that the control can be dereferenced.
func (c Control) Validate() error {
	if strings.TrimSpace(c.Href) == "" {
		return ErrMissingHref
	}

	return nil
}

func normalizeMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return http.MethodGet
	}

	return method
}

// Reserved top-level properties of a Mason object.
const (
	propControls   = "@controls"
	propError      = "@error"
	propNamespaces = "@namespaces"
	propMeta       = "@meta"
	propItems      = "items"
)

// Representation is a read-only view over a decoded Mason response body.
type Representation struct {
	raw      json.RawMessage
	fields   map[string]json.RawMessage
	controls map[ControlName]Control
	items    []*Representation
}

// Parse decodes a Mason JSON object.
func Parse(data []byte) (*Representation, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyBody
	}

	if trimmed[0] != '{' {
		return nil, ErrNotAnObject
	}

	var object map[string]json.RawMessage

	err := json.Unmarshal(trimmed, &object)
	if err != nil {
		return nil, fmt.Errorf("parsing representation: %w", err)
	}

	rep := &Representation{
		raw:      append(json.RawMessage(nil), trimmed...),
		fields:   make(map[string]json.RawMessage, len(object)),
		controls: make(map[ControlName]Control),
	}

	for key, value := range object {
		switch key {
		case propControls:
			err = rep.parseControls(value)
		case propItems:
			err = rep.parseItems(value)
		case propError, propNamespaces, propMeta:
		default:
			rep.fields[key] = value
		}

		if err != nil {
			return nil, err
		}
	}

	return rep, nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixtures.
func MustParse(data []byte) *Representation {
	rep, err := Parse(data)
	if err != nil {
		panic(err)
	}

	return rep
}

func (r *Representation) parseControls(data json.RawMessage) error {
	var controls map[string]Control

	err := json.Unmarshal(data, &controls)
	if err != nil {
		return fmt.Errorf("parsing @controls: %w", err)
	}

	for name, ctl := range controls {
		r.controls[ControlName(name)] = ctl
	}

	return nil
}

func (r *Representation) parseItems(data json.RawMessage) error {
	var items []json.RawMessage

	err := json.Unmarshal(data, &items)
	if err != nil {
		return fmt.Errorf("parsing items: %w", err)
	}

	r.items = make([]*Representation, 0, len(items))

	for index, raw := range items {
		item, err := Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing item %d: %w", index, err)
		}

		r.items = append(r.items, item)
	}

	return nil
}

// Control returns the named control. A missing control is reported with ok=false.
func (r *Representation) Control(name ControlName) (Control, bool) {
	if r == nil {
		return Control{}, false
	}

	ctl, ok := r.controls[name]

	return ctl, ok
}

// Controls returns the names of all controls in deterministic order.
func (r *Representation) Controls() []ControlName {
	if r == nil {
		return nil
	}

	names := make([]ControlName, 0, len(r.controls))
	for name := range r.controls {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Items returns the embedded sub-representations in server order.
func (r *Representation) Items() []*Representation {
	if r == nil {
		return nil
	}

	return r.items
}

// Field returns the raw JSON of a domain field.
func (r *Representation) Field(name string) (json.RawMessage, bool) {
	if r == nil {
		return nil, false
	}

	value, ok := r.fields[name]

	return value, ok
}

// String returns a domain field formatted for display. Strings are returned
// unquoted, null and missing fields as an empty string, anything else as
// its JSON text.
func (r *Representation) String(name string) string {
	value, ok := r.Field(name)
	if !ok {
		return ""
	}

	var text string
	if json.Unmarshal(value, &text) == nil {
		return text
	}

	trimmed := strings.TrimSpace(string(value))
	if trimmed == "null" {
		return ""
	}

	return trimmed
}

// Decode unmarshals the whole representation into v.
func (r *Representation) Decode(v any) error {
	if r == nil {
		return ErrNilRepresentation
	}

	err := json.Unmarshal(r.raw, v)
	if err != nil {
		return fmt.Errorf("decoding representation: %w", err)
	}

	return nil
}

// Raw returns the original JSON body.
func (r *Representation) Raw() []byte {
	if r == nil {
		return nil
	}

	return r.raw
}

// MarshalJSON returns the original body.
func (r *Representation) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.raw) == 0 {
		return []byte("null"), nil
	}

	return r.raw, nil
}

// Result is the outcome of a successful transport call.
type Result struct {
	// Representation is nil when the response had no body (e.g. 204 after PUT).
	Representation *Representation
	// Location is the Location response header, set after a creating POST.
	Location   string
	StatusCode int
	Header     http.Header
}
