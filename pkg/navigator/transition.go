package navigator

import (
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Transition is the next state the navigator asks for. It is one of Show,
// Append, Notify or Batch.
type Transition interface {
	transition()
}

// Show replaces the current view with rep rendered as Kind.
type Show struct {
	Kind view.Kind
	Rep  *mason.Representation
}

// Append adds rep as a new row at the end of the current table.
type Append struct {
	Rep *mason.Representation
}

// Notify replaces the single notification message. Href is the Location a
// successful write answered with, if any.
type Notify struct {
	Level   Level
	Message string
	Href    string
}

// Batch applies several transitions in order.
type Batch []Transition

func (Show) transition()   {}
func (Append) transition() {}
func (Notify) transition() {}
func (Batch) transition()  {}

func notifyError(err error) Notify {
	return Notify{Level: LevelError, Message: mason.ErrorMessage(err)}
}
