// Package ui holds the client state, the pure reducer that applies navigator
// transitions to it, and the projection of that state to a terminal.
package ui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/fivetwenty-io/nearby-client/pkg/navigator"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
)

// Static errors for err113 compliance.
var (
	ErrNoTable           = errors.New("current view has no area table to append to")
	ErrUnknownTransition = errors.New("unknown transition")
)

// Notification is the single shared message slot.
type Notification struct {
	Level   navigator.Level `json:"level"   yaml:"level"`
	Message string          `json:"message" yaml:"message"`
}

// State is everything the terminal shows: the current page, the
// representation it was rendered from and at most one notification.
type State struct {
	Page         *view.Page
	Rep          *mason.Representation
	Notification *Notification
}

// Reduce applies tr to state and returns the new state. It never mutates
// state. On error the returned state is the input state.
func Reduce(state State, tr navigator.Transition) (State, error) {
	switch t := tr.(type) {
	case nil:
		return state, nil
	case navigator.Show:
		page, err := view.Render(t.Kind, t.Rep)
		if err != nil {
			return state, err
		}

		next := state
		next.Page = page
		next.Rep = t.Rep

		return next, nil
	case navigator.Append:
		return appendRow(state, t.Rep)
	case navigator.Notify:
		next := state
		next.Notification = &Notification{Level: t.Level, Message: t.Message}

		return next, nil
	case navigator.Batch:
		next := state

		var errs []error

		for _, inner := range t {
			reduced, err := Reduce(next, inner)
			if err != nil {
				errs = append(errs, err)

				continue
			}

			next = reduced
		}

		return next, errors.Join(errs...)
	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownTransition, tr)
	}
}

func appendRow(state State, rep *mason.Representation) (State, error) {
	if rep == nil {
		return state, fmt.Errorf("appending row: %w", mason.ErrNilRepresentation)
	}

	if state.Page == nil || state.Page.Kind != view.AreasList || state.Page.Table == nil {
		return state, ErrNoTable
	}

	table := *state.Page.Table
	table.Rows = append(slices.Clone(table.Rows), view.AreaRow(rep))

	page := *state.Page
	page.Table = &table

	next := state
	next.Page = &page

	return next, nil
}
