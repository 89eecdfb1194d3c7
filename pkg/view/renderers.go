package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fivetwenty-io/nearby-client/pkg/form"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
)

// Areas renders an areas collection: one row per item with a "show" action,
// and the add-area form when the server offers it.
func Areas(rep *mason.Representation) (*Page, error) {
	if rep == nil {
		return nil, fmt.Errorf("rendering %s: %w", AreasList, mason.ErrNilRepresentation)
	}

	table := &Table{
		Columns: []string{"Name", "Location", "Actions"},
		Rows:    []Row{},
	}

	for _, item := range rep.Items() {
		table.Rows = append(table.Rows, AreaRow(item))
	}

	page := &Page{
		Kind:  AreasList,
		Title: "Areas",
		Table: table,
	}

	if ctl, ok := rep.Control(mason.ControlAddArea); ok {
		page.Form = form.Build(ctl, nil)
	}

	return page, nil
}

// AreaRow renders a single area item. Its "show" action activates the item's
// self control; an item without one renders with no action.
func AreaRow(rep *mason.Representation) Row {
	name, location := areaFields(rep)

	row := Row{
		Cells: []string{name, location},
	}

	if show, ok := link(rep, mason.ControlSelf, "show", AreaDetail); ok {
		row.Actions = []Link{show}
	}

	return row
}

// Area renders a single area: a link back to the collection, its details and
// the update form pre-filled with the current name.
func Area(rep *mason.Representation) (*Page, error) {
	if rep == nil {
		return nil, fmt.Errorf("rendering %s: %w", AreaDetail, mason.ErrNilRepresentation)
	}

	name, location := areaFields(rep)

	page := &Page{
		Kind:  AreaDetail,
		Title: name,
		Details: []Detail{
			{Label: "Name", Value: name},
			{Label: "Location", Value: location},
		},
	}

	if areas, ok := link(rep, mason.ControlCollection, "Areas", AreasList); ok {
		page.Navigation = append(page.Navigation, areas)
	}

	if measurements, ok := link(rep, mason.ControlAreaMeasurements, "Measurements", MeasurementsList); ok {
		page.Navigation = append(page.Navigation, measurements)
	}

	edit, ok := rep.Control(mason.ControlEdit)
	if !ok {
		edit, ok = rep.Control(mason.ControlEditArea)
	}

	if ok {
		page.Form = form.Build(edit, map[string]string{"name": name},
			form.WithReadOnly("location", "Location", location))
	}

	return page, nil
}

// Measurements renders one page of measurements with prev/next links shown
// only when the server returned them.
func Measurements(rep *mason.Representation) (*Page, error) {
	if rep == nil {
		return nil, fmt.Errorf("rendering %s: %w", MeasurementsList, mason.ErrNilRepresentation)
	}

	page := &Page{
		Kind:  MeasurementsList,
		Title: "Measurements",
		Table: &Table{
			Columns: []string{"Time", "Value"},
			Rows:    []Row{},
		},
	}

	if up, ok := link(rep, mason.ControlUp, "Area", AreaDetail); ok {
		page.Navigation = append(page.Navigation, up)
	}

	if prev, ok := link(rep, mason.ControlPrev, "prev", MeasurementsList); ok {
		page.Pager = append(page.Pager, prev)
	}

	if next, ok := link(rep, mason.ControlNext, "next", MeasurementsList); ok {
		page.Pager = append(page.Pager, next)
	}

	for _, item := range rep.Items() {
		page.Table.Rows = append(page.Table.Rows, Row{Cells: measurementCells(item)})
	}

	return page, nil
}

func areaFields(rep *mason.Representation) (string, string) {
	area, err := mason.DecodeArea(rep)
	if err != nil {
		return rep.String("name"), rep.String("location")
	}

	return area.Name, area.Location
}

// measurementCells falls back to the raw field text when an item does not
// decode as a measurement.
func measurementCells(rep *mason.Representation) []string {
	m, err := mason.DecodeMeasurement(rep)
	if err != nil || m.Time.IsZero() {
		return []string{rep.String("time"), rep.String("value")}
	}

	return []string{m.Time.UTC().Format(time.RFC3339), strconv.FormatFloat(m.Value, 'f', -1, 64)}
}
