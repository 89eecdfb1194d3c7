// Package navigator turns activated controls and submitted forms into
// transport calls and returns the resulting state transition.
package navigator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/pkg/form"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
)

// Navigator bridges user intent to the transport. It never renders.
type Navigator struct {
	transport mason.Transport
	logger    mason.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger.
func WithLogger(logger mason.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a navigator over transport.
func New(transport mason.Transport, opts ...Option) *Navigator {
	nav := &Navigator{
		transport: transport,
		logger:    mason.NopLogger{},
	}

	for _, opt := range opts {
		opt(nav)
	}

	return nav
}

// Activate dereferences ctl and asks for its result to be shown as target.
// payload is sent only for write controls. A write that answers with an
// empty body yields a success notification only, carrying the response
// Location.
func (n *Navigator) Activate(ctx context.Context, ctl mason.Control, target view.Kind, payload any) Transition {
	result, err := n.fetch(ctx, ctl, payload)
	if err != nil {
		return notifyError(err)
	}

	if !ctl.IsWrite() {
		if result.Representation == nil {
			return notifyError(fmt.Errorf("%w: empty body from %s", mason.ErrUnexpectedBody, ctl.Href))
		}

		return Show{Kind: target, Rep: result.Representation}
	}

	success := Notify{Level: LevelSuccess, Message: constants.MessageSuccessful}

	if result.Representation == nil {
		success.Href = result.Location

		return success
	}

	return Batch{Show{Kind: target, Rep: result.Representation}, success}
}

// CreateResource sends payload through ctl. On success the created resource
// is fetched from the Location header and appended as a new row. Without a
// Location only the success notification is produced.
func (n *Navigator) CreateResource(ctx context.Context, ctl mason.Control, payload any) Transition {
	if payload == nil {
		payload = map[string]interface{}{}
	}

	result, err := n.fetch(ctx, ctl, payload)
	if err != nil {
		return notifyError(err)
	}

	success := Notify{Level: LevelSuccess, Message: constants.MessageSuccessful}

	if result.Location == "" {
		n.logger.Warn("created resource has no Location header, row not appended", map[string]interface{}{
			"href":        ctl.Href,
			"status_code": result.StatusCode,
		})

		return success
	}

	created, err := n.fetch(ctx, mason.Control{Href: result.Location, Method: http.MethodGet}, nil)
	if err != nil {
		return Batch{success, notifyError(err)}
	}

	if created.Representation == nil {
		return Batch{success, notifyError(fmt.Errorf("%w: empty body from %s", mason.ErrUnexpectedBody, result.Location))}
	}

	return Batch{success, Append{Rep: created.Representation}}
}

// Submit sends a collected form: creations go through CreateResource and
// updates through Activate with target as the view to show.
func (n *Navigator) Submit(ctx context.Context, submission form.Submission, target view.Kind) Transition {
	if submission.Intent == form.IntentCreate {
		return n.CreateResource(ctx, submission.Control, submission.Payload)
	}

	return n.Activate(ctx, submission.Control, target, submission.Payload)
}

func (n *Navigator) fetch(ctx context.Context, ctl mason.Control, payload any) (*mason.Result, error) {
	if n.transport == nil {
		return nil, mason.ErrTransportRequired
	}

	err := ctl.Validate()
	if err != nil {
		return nil, err
	}

	var body any
	if ctl.IsWrite() {
		body = payload
	}

	result, err := n.transport.Fetch(ctx, ctl.Href, ctl.Method, body)
	if err != nil {
		n.logger.Warn("request failed", map[string]interface{}{
			"href":        ctl.Href,
			"method":      ctl.Method,
			"status_code": mason.StatusCode(err),
			"error":       mason.ErrorMessage(err),
		})

		return nil, err
	}

	return result, nil
}
