package mason

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Properties(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`{
		"type": "object",
		"properties": {
			"name": {"description": "Area name", "type": "string"},
			"max_tickets": {"title": "Tickets", "type": "integer", "default": 100},
			"event_begin": {"type": "string", "format": "date-time"},
			"cancelled": {"type": ["boolean", "null"]},
			"location": {"type": "string", "readOnly": true},
			"notes": {}
		},
		"required": ["name", "max_tickets"]
	}`))
	require.NoError(t, err)

	props := schema.Properties()
	require.Len(t, props, 6)

	names := make([]string, 0, len(props))
	for _, prop := range props {
		names = append(names, prop.Name)
	}

	assert.Equal(t, []string{"cancelled", "event_begin", "location", "max_tickets", "name", "notes"}, names)

	name, ok := schema.Property("name")
	require.True(t, ok)
	assert.Equal(t, "Area name", name.Label())
	assert.Equal(t, InputText, name.InputType)

	tickets, ok := schema.Property("max_tickets")
	require.True(t, ok)
	assert.Equal(t, "Tickets", tickets.Label())
	assert.Equal(t, InputNumber, tickets.InputType)
	assert.InDelta(t, 100.0, tickets.Default, 0.0001)

	begin, _ := schema.Property("event_begin")
	assert.Equal(t, InputDateTime, begin.InputType)

	cancelled, _ := schema.Property("cancelled")
	assert.Equal(t, InputCheckbox, cancelled.InputType)

	location, _ := schema.Property("location")
	assert.True(t, location.ReadOnly)

	notes, _ := schema.Property("notes")
	assert.Equal(t, "notes", notes.Label())
	assert.Equal(t, InputText, notes.InputType)

	_, ok = schema.Property("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"name", "max_tickets"}, schema.Required())
	assert.True(t, schema.IsRequired("max_tickets"))
	assert.False(t, schema.IsRequired("notes"))
}

func TestSchema_Nil(t *testing.T) {
	t.Parallel()

	var schema *Schema

	assert.Nil(t, schema.Properties())
	assert.Nil(t, schema.Required())
	assert.False(t, schema.IsRequired("name"))
}

func TestSchema_RoundTripThroughControl(t *testing.T) {
	t.Parallel()

	var ctl Control

	err := json.Unmarshal([]byte(`{"href": "/api/areas/", "method": "POST",
		"schema": {"type": "object", "properties": {"name": {"description": "Area name"}}, "required": ["name"]}}`), &ctl)
	require.NoError(t, err)

	data, err := json.Marshal(ctl)
	require.NoError(t, err)

	var decoded Control

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ctl.Schema.Properties(), decoded.Schema.Properties())
	assert.Equal(t, []string{"name"}, decoded.Schema.Required())
}
