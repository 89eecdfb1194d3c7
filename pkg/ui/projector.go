package ui

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/pkg/form"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
	"github.com/microcosm-cc/bluemonday"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Projector writes a State to a terminal as a table, JSON or YAML.
// Server-supplied page text is reduced to plain text first. Notification
// messages are shown verbatim apart from control characters.
type Projector struct {
	w      io.Writer
	format string
	policy *bluemonday.Policy
}

// NewProjector creates a projector for one of the output formats.
func NewProjector(w io.Writer, format string) (*Projector, error) {
	switch format {
	case "", constants.FormatTable:
		format = constants.FormatTable
	case constants.FormatJSON, constants.FormatYAML:
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidOutput, format)
	}

	return &Projector{
		w:      w,
		format: format,
		policy: bluemonday.StrictPolicy(),
	}, nil
}

type linkOutput struct {
	Label  string `json:"label"  yaml:"label"`
	Method string `json:"method" yaml:"method"`
	Href   string `json:"href"   yaml:"href"`
	Target string `json:"target" yaml:"target"`
}

type rowOutput struct {
	Cells   []string     `json:"cells"             yaml:"cells"`
	Actions []linkOutput `json:"actions,omitempty" yaml:"actions,omitempty"`
}

type tableOutput struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Rows    []rowOutput `json:"rows"    yaml:"rows"`
}

type formOutput struct {
	Title  string       `json:"title,omitempty" yaml:"title,omitempty"`
	Action string       `json:"action"          yaml:"action"`
	Method string       `json:"method"          yaml:"method"`
	Intent string       `json:"intent"          yaml:"intent"`
	Fields []form.Field `json:"fields"          yaml:"fields"`
}

type stateOutput struct {
	Kind         string        `json:"kind,omitempty"         yaml:"kind,omitempty"`
	Title        string        `json:"title,omitempty"        yaml:"title,omitempty"`
	Notification *Notification `json:"notification,omitempty" yaml:"notification,omitempty"`
	Navigation   []linkOutput  `json:"navigation,omitempty"   yaml:"navigation,omitempty"`
	Details      []view.Detail `json:"details,omitempty"      yaml:"details,omitempty"`
	Table        *tableOutput  `json:"table,omitempty"        yaml:"table,omitempty"`
	Pager        []linkOutput  `json:"pager,omitempty"        yaml:"pager,omitempty"`
	Form         *formOutput   `json:"form,omitempty"         yaml:"form,omitempty"`
}

// Project writes state. Writing the same state twice produces the same
// output.
func (p *Projector) Project(state State) error {
	out := p.output(state)

	switch p.format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(out)
		if err != nil {
			return fmt.Errorf("encoding state as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(p.w)

		err := encoder.Encode(out)
		if err != nil {
			return fmt.Errorf("encoding state as YAML: %w", err)
		}

		return encoder.Close()
	default:
		return p.table(out)
	}
}

func (p *Projector) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(s)))
}

// verbatim drops control characters, including the ESC that starts a
// terminal escape sequence, and keeps everything else.
func verbatim(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, s)
}

func (p *Projector) links(links []view.Link) []linkOutput {
	if len(links) == 0 {
		return nil
	}

	out := make([]linkOutput, 0, len(links))
	for _, l := range links {
		method := l.Control.Method
		if method == "" {
			method = "GET"
		}

		out = append(out, linkOutput{
			Label:  p.clean(l.Label),
			Method: method,
			Href:   p.clean(l.Control.Href),
			Target: string(l.Target),
		})
	}

	return out
}

func (p *Projector) output(state State) stateOutput {
	var out stateOutput

	if state.Notification != nil {
		out.Notification = &Notification{
			Level:   state.Notification.Level,
			Message: verbatim(state.Notification.Message),
		}
	}

	page := state.Page
	if page == nil {
		return out
	}

	out.Kind = string(page.Kind)
	out.Title = p.clean(page.Title)
	out.Navigation = p.links(page.Navigation)
	out.Pager = p.links(page.Pager)

	for _, detail := range page.Details {
		out.Details = append(out.Details, view.Detail{Label: detail.Label, Value: p.clean(detail.Value)})
	}

	if page.Table != nil {
		table := &tableOutput{Columns: page.Table.Columns, Rows: []rowOutput{}}

		for _, row := range page.Table.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, p.clean(cell))
			}

			table.Rows = append(table.Rows, rowOutput{Cells: cells, Actions: p.links(row.Actions)})
		}

		out.Table = table
	}

	if page.Form != nil {
		fields := make([]form.Field, 0, len(page.Form.Fields))
		for _, field := range page.Form.Fields {
			field.Label = p.clean(field.Label)
			field.Value = p.clean(field.Value)
			fields = append(fields, field)
		}

		out.Form = &formOutput{
			Title:  p.clean(page.Form.Title),
			Action: p.clean(page.Form.Action),
			Method: page.Form.Method,
			Intent: string(page.Form.Intent),
			Fields: fields,
		}
	}

	return out
}

func (p *Projector) table(out stateOutput) error {
	if out.Title != "" {
		_, _ = fmt.Fprintf(p.w, "%s\n\n", out.Title)
	}

	if out.Notification != nil {
		_, _ = fmt.Fprintf(p.w, "[%s] %s\n\n", out.Notification.Level, out.Notification.Message)
	}

	if len(out.Navigation) > 0 {
		_, _ = fmt.Fprintf(p.w, "Navigation: %s\n\n", joinLinks(out.Navigation))
	}

	if len(out.Details) > 0 {
		table := tablewriter.NewWriter(p.w)
		table.Header("Property", "Value")

		for _, detail := range out.Details {
			_ = table.Append(detail.Label, detail.Value)
		}

		_ = table.Render()
	}

	if out.Table != nil {
		p.renderTable(out.Table)
	}

	if len(out.Pager) > 0 {
		_, _ = fmt.Fprintf(p.w, "\nPages: %s\n", joinLinks(out.Pager))
	}

	if out.Form != nil {
		title := out.Form.Title
		if title == "" {
			title = "Form"
		}

		_, _ = fmt.Fprintf(p.w, "\n%s (%s %s)\n", title, out.Form.Method, out.Form.Action)

		table := tablewriter.NewWriter(p.w)
		table.Header("Field", "Label", "Type", "Required", "Value")

		for _, field := range out.Form.Fields {
			value := field.Value
			if field.ReadOnly {
				value += " (read-only)"
			}

			_ = table.Append([]string{field.Name, field.Label, field.InputType, yesNo(field.Required), value})
		}

		_ = table.Render()
	}

	return nil
}

func (p *Projector) renderTable(out *tableOutput) {
	table := tablewriter.NewWriter(p.w)

	header := make([]any, 0, len(out.Columns))
	for _, column := range out.Columns {
		header = append(header, column)
	}

	table.Header(header...)

	timeColumn := -1
	for i, column := range out.Columns {
		if column == "Time" {
			timeColumn = i
		}
	}

	for _, row := range out.Rows {
		cells := append([]string{}, row.Cells...)

		if timeColumn >= 0 && timeColumn < len(cells) {
			cells[timeColumn] = formatTime(cells[timeColumn])
		}

		if len(row.Actions) > 0 {
			cells = append(cells, joinLinks(row.Actions))
		} else if len(cells) < len(out.Columns) {
			cells = append(cells, constants.NotAvailable)
		}

		_ = table.Append(cells)
	}

	_ = table.Render()
}

func joinLinks(links []linkOutput) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Label, l.Href))
	}

	return strings.Join(parts, " | ")
}

func formatTime(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}

	return parsed.Format(constants.TimeLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
