package mason

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const areasCollection = `{
  "@namespaces": {"nearby": {"name": "/nearby/link-relations/"}},
  "@controls": {
    "self": {"href": "/api/areas/"},
    "nearby:add-area": {
      "href": "/api/areas/",
      "method": "post",
      "encoding": "json",
      "title": "Add a new area",
      "schema": {
        "type": "object",
        "properties": {"name": {"description": "Area name", "type": "string"}},
        "required": ["name"]
      }
    }
  },
  "items": [
    {"name": "Kumpula", "location": "Helsinki", "@controls": {"self": {"href": "/api/areas/Kumpula/"}}},
    {"name": "Otaniemi", "location": "Espoo", "@controls": {"self": {"href": "/api/areas/Otaniemi/"}}}
  ]
}`

func TestParse(t *testing.T) {
	t.Parallel()

	rep, err := Parse([]byte(areasCollection))
	require.NoError(t, err)

	self, ok := rep.Control(ControlSelf)
	require.True(t, ok)
	assert.Equal(t, "/api/areas/", self.Href)
	assert.Equal(t, "GET", self.Method)

	add, ok := rep.Control(ControlAddArea)
	require.True(t, ok)
	assert.Equal(t, "POST", add.Method)
	assert.Equal(t, "Add a new area", add.Title)
	require.NotNil(t, add.Schema)
	assert.True(t, add.Schema.IsRequired("name"))
	assert.True(t, add.IsWrite())

	_, ok = rep.Control(ControlPrev)
	assert.False(t, ok, "absent controls are reported, not errors")

	items := rep.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Kumpula", items[0].String("name"))
	assert.Equal(t, "Otaniemi", items[1].String("name"))

	second, ok := items[1].Control(ControlSelf)
	require.True(t, ok)
	assert.Equal(t, "/api/areas/Otaniemi/", second.Href)

	_, ok = rep.Field("@namespaces")
	assert.False(t, ok)
	assert.Equal(t, []ControlName{ControlAddArea, ControlSelf}, rep.Controls())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: "  "},
		{name: "array", body: `[1, 2]`},
		{name: "broken json", body: `{"name": `},
		{name: "bad controls", body: `{"@controls": []}`},
		{name: "bad item", body: `{"items": [1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestRepresentation_String(t *testing.T) {
	t.Parallel()

	rep := MustParse([]byte(`{"time": "2024-01-01T10:00:00Z", "value": 21.5, "note": null}`))

	assert.Equal(t, "2024-01-01T10:00:00Z", rep.String("time"))
	assert.Equal(t, "21.5", rep.String("value"))
	assert.Empty(t, rep.String("note"))
	assert.Empty(t, rep.String("missing"))
	assert.Empty(t, rep.Items())
}

func TestRepresentation_Nil(t *testing.T) {
	t.Parallel()

	var rep *Representation

	_, ok := rep.Control(ControlSelf)
	assert.False(t, ok)
	assert.Nil(t, rep.Items())
	assert.Empty(t, rep.String("name"))
	assert.ErrorIs(t, rep.Decode(&Area{}), ErrNilRepresentation)

	data, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(data))
}

func TestDecodeArea(t *testing.T) {
	t.Parallel()

	rep := MustParse([]byte(areasCollection)).Items()[0]

	area, err := DecodeArea(rep)
	require.NoError(t, err)
	assert.Equal(t, &Area{Name: "Kumpula", Location: "Helsinki"}, area)
}

func TestDecodeMeasurement(t *testing.T) {
	t.Parallel()

	rep := MustParse([]byte(`{"time": "2024-01-01T10:00:00Z", "value": 3.25}`))

	measurement, err := DecodeMeasurement(rep)
	require.NoError(t, err)
	assert.InDelta(t, 3.25, measurement.Value, 0.0001)
	assert.Equal(t, 2024, measurement.Time.Year())
}

func TestControl_Validate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, Control{}.Validate(), ErrMissingHref)
	assert.NoError(t, Control{Href: "/api/areas/"}.Validate())
	assert.False(t, Control{Href: "/api/areas/"}.IsWrite())
	assert.True(t, Control{Href: "/api/areas/x/", Method: "delete"}.IsWrite())
}

func TestControlName_Known(t *testing.T) {
	t.Parallel()

	assert.True(t, ControlAddArea.Known())
	assert.True(t, ControlNext.Known())
	assert.False(t, ControlName("nearby:unknown").Known())
}
