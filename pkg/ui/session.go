package ui

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/fivetwenty-io/nearby-client/internal/events"
	"github.com/fivetwenty-io/nearby-client/pkg/form"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/fivetwenty-io/nearby-client/pkg/navigator"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
)

// Static errors for err113 compliance.
var (
	ErrNoForm = errors.New("current view has no form")
)

// Session owns the state of one browsing user. Calls may overlap: requests
// run outside the lock and their transitions are applied in arrival order,
// so the last response wins.
type Session struct {
	nav       *navigator.Navigator
	publisher events.Publisher
	logger    mason.Logger

	mu    sync.Mutex
	state State
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPublisher publishes every applied transition.
func WithPublisher(publisher events.Publisher) SessionOption {
	return func(s *Session) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger mason.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session driven by nav.
func NewSession(nav *navigator.Navigator, opts ...SessionOption) *Session {
	session := &Session{
		nav:       nav,
		publisher: events.Nop{},
		logger:    mason.NopLogger{},
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Start loads the entry point and shows it as the areas list.
func (s *Session) Start(ctx context.Context, entry string) error {
	return s.Open(ctx, entry, view.AreasList)
}

// Open loads href and shows it as kind.
func (s *Session) Open(ctx context.Context, href string, kind view.Kind) error {
	ctl := mason.Control{Href: href, Method: http.MethodGet}

	return s.apply(ctx, ctl.Href, s.nav.Activate(ctx, ctl, kind, nil))
}

// Follow activates a link shown on the current page.
func (s *Session) Follow(ctx context.Context, link view.Link) error {
	return s.apply(ctx, link.Control.Href, s.nav.Activate(ctx, link.Control, link.Target, nil))
}

// Submit fills in the current page's form with values and sends it. An
// update re-renders the current view kind. When the update answers without
// a body the resource is reloaded from the response Location, or else from
// the current page's self control.
func (s *Session) Submit(ctx context.Context, values map[string]string) error {
	current := s.State()
	if current.Page == nil || current.Page.Form == nil {
		return ErrNoForm
	}

	submission, err := current.Page.Form.Submit(values)
	if err != nil {
		return err
	}

	tr := s.nav.Submit(ctx, submission, current.Page.Kind)

	err = s.apply(ctx, submission.Control.Href, tr)
	if err != nil {
		return err
	}

	notify, ok := tr.(navigator.Notify)
	if submission.Intent != form.IntentUpdate || !ok || notify.Level != navigator.LevelSuccess {
		return nil
	}

	href := notify.Href
	if href == "" && current.Rep != nil {
		self, _ := current.Rep.Control(mason.ControlSelf)
		href = self.Href
	}

	s.reload(ctx, href, current.Page.Kind)

	return nil
}

// reload shows href as kind. The write before it already succeeded, so a
// failed reload keeps the current state and is only logged.
func (s *Session) reload(ctx context.Context, href string, kind view.Kind) {
	if href == "" {
		return
	}

	ctl := mason.Control{Href: href, Method: http.MethodGet}

	tr := s.nav.Activate(ctx, ctl, kind, nil)

	show, ok := tr.(navigator.Show)
	if !ok {
		message := ""
		if notify, isNotify := tr.(navigator.Notify); isNotify {
			message = notify.Message
		}

		s.logger.Warn("reloading after update failed", map[string]interface{}{
			"href":  href,
			"error": message,
		})

		return
	}

	_ = s.apply(ctx, href, show)
}

func (s *Session) apply(ctx context.Context, href string, tr navigator.Transition) error {
	s.mu.Lock()
	next, err := Reduce(s.state, tr)
	s.state = next
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("transition not fully applied", map[string]interface{}{
			"href":  href,
			"error": err.Error(),
		})
	}

	s.publish(ctx, href, tr)

	return err
}

func (s *Session) publish(ctx context.Context, href string, tr navigator.Transition) {
	for _, event := range toEvents(href, tr) {
		err := s.publisher.Publish(ctx, event)
		if err != nil {
			s.logger.Warn("publishing session event failed", map[string]interface{}{
				"type":  event.Type,
				"error": err.Error(),
			})
		}
	}
}

type navigateData struct {
	Kind view.Kind `json:"kind"`
	Href string    `json:"href,omitempty"`
}

type appendData struct {
	Name string `json:"name"`
	Href string `json:"href,omitempty"`
}

func toEvents(href string, tr navigator.Transition) []events.Event {
	var (
		eventType string
		subject   = href
		data      any
	)

	switch t := tr.(type) {
	case navigator.Batch:
		var out []events.Event
		for _, inner := range t {
			out = append(out, toEvents(href, inner)...)
		}

		return out
	case navigator.Show:
		self, _ := t.Rep.Control(mason.ControlSelf)
		if self.Href != "" {
			subject = self.Href
		}

		eventType = events.TypeNavigate
		data = navigateData{Kind: t.Kind, Href: subject}
	case navigator.Append:
		self, _ := t.Rep.Control(mason.ControlSelf)
		if self.Href != "" {
			subject = self.Href
		}

		eventType = events.TypeAppend
		data = appendData{Name: t.Rep.String("name"), Href: self.Href}
	case navigator.Notify:
		eventType = events.TypeNotify
		data = Notification{Level: t.Level, Message: t.Message}
	default:
		return nil
	}

	event, err := events.NewEvent(eventType, subject, data)
	if err != nil {
		return nil
	}

	return []events.Event{event}
}
