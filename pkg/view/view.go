// Package view holds the pure renderers that turn a representation into a
// UI description: a navigation strip, a table and at most one form.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/nearby-client/pkg/form"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
)

// Kind identifies which renderer a representation is routed to.
type Kind string

const (
	AreasList        Kind = "areas"
	AreaDetail       Kind = "area"
	MeasurementsList Kind = "measurements"
)

// Static errors for err113 compliance.
var (
	ErrUnknownKind = errors.New("unknown view kind")
)

// Kinds returns every renderable kind.
func Kinds() []Kind {
	return []Kind{AreasList, AreaDetail, MeasurementsList}
}

// ParseKind converts a name such as "areas" into a Kind.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds() {
		if kind == known {
			return kind, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Link is an activatable control together with the view its result is
// rendered as.
type Link struct {
	Label   string            `json:"label"   yaml:"label"`
	Rel     mason.ControlName `json:"rel"     yaml:"rel"`
	Control mason.Control     `json:"control" yaml:"control"`
	Target  Kind              `json:"target"  yaml:"target"`
}

// Row is one table row. Actions is empty when the item has no self control.
type Row struct {
	Cells   []string `json:"cells"             yaml:"cells"`
	Actions []Link   `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Table is the tabular body of a page.
type Table struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows"    yaml:"rows"`
}

// Detail is a labelled value of a single-entity view.
type Detail struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Page is the complete UI description of one representation.
type Page struct {
	Kind       Kind             `json:"kind"                 yaml:"kind"`
	Title      string           `json:"title"                yaml:"title"`
	Navigation []Link           `json:"navigation,omitempty" yaml:"navigation,omitempty"`
	Pager      []Link           `json:"pager,omitempty"      yaml:"pager,omitempty"`
	Table      *Table           `json:"table,omitempty"      yaml:"table,omitempty"`
	Form       *form.Descriptor `json:"form,omitempty"       yaml:"form,omitempty"`
	Details    []Detail         `json:"details,omitempty"    yaml:"details,omitempty"`
}

// Links returns every link the page offers, in display order: navigation,
// row actions, then pager.
func (p *Page) Links() []Link {
	if p == nil {
		return nil
	}

	links := append([]Link{}, p.Navigation...)

	if p.Table != nil {
		for _, row := range p.Table.Rows {
			links = append(links, row.Actions...)
		}
	}

	return append(links, p.Pager...)
}

// Renderer produces a page from a representation.
type Renderer func(rep *mason.Representation) (*Page, error)

// Render dispatches rep to the renderer registered for kind.
func Render(kind Kind, rep *mason.Representation) (*Page, error) {
	var renderer Renderer

	switch kind {
	case AreasList:
		renderer = Areas
	case AreaDetail:
		renderer = Area
	case MeasurementsList:
		renderer = Measurements
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}

	return renderer(rep)
}

func link(rep *mason.Representation, name mason.ControlName, label string, target Kind) (Link, bool) {
	ctl, ok := rep.Control(name)
	if !ok || ctl.Validate() != nil {
		return Link{}, false
	}

	return Link{Label: label, Rel: name, Control: ctl, Target: target}, true
}
