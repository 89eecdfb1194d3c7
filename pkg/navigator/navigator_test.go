package navigator_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/nearby-client/pkg/form"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/fivetwenty-io/nearby-client/pkg/navigator"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	href   string
	method string
	body   any
}

type response struct {
	result *mason.Result
	err    error
}

// fakeTransport answers by "METHOD href" and records every call.
type fakeTransport struct {
	responses map[string]response
	calls     []call
}

func (f *fakeTransport) Fetch(_ context.Context, href, method string, body any) (*mason.Result, error) {
	f.calls = append(f.calls, call{href: href, method: method, body: body})

	resp, ok := f.responses[method+" "+href]
	if !ok {
		return nil, &mason.APIError{StatusCode: http.StatusNotFound, Message: "Not found"}
	}

	return resp.result, resp.err
}

type warnLogger struct {
	mason.NopLogger
	warnings []string
}

func (l *warnLogger) Warn(msg string, _ map[string]interface{}) {
	l.warnings = append(l.warnings, msg)
}

func rep(body string) *mason.Representation {
	return mason.MustParse([]byte(body))
}

var addArea = mason.Control{Href: "/api/areas/", Method: http.MethodPost}

func TestActivate_Show(t *testing.T) {
	t.Parallel()

	otaniemi := rep(`{"name": "Otaniemi", "@controls": {"collection": {"href": "/api/areas/"}}}`)
	transport := &fakeTransport{responses: map[string]response{
		"GET /api/areas/Otaniemi/": {result: &mason.Result{Representation: otaniemi, StatusCode: 200}},
	}}

	nav := navigator.New(transport)
	tr := nav.Activate(context.Background(), mason.Control{Href: "/api/areas/Otaniemi/", Method: "GET"}, view.AreaDetail, map[string]string{"ignored": "x"})

	assert.Equal(t, navigator.Show{Kind: view.AreaDetail, Rep: otaniemi}, tr)
	require.Len(t, transport.calls, 1)
	assert.Equal(t, "GET", transport.calls[0].method)
	assert.Nil(t, transport.calls[0].body, "GET never sends a payload")
}

func TestActivate_Failure(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: map[string]response{
		"GET /api/areas/Nowhere/": {err: &mason.APIError{StatusCode: 404, Message: "Not found"}},
	}}

	logger := &warnLogger{}
	nav := navigator.New(transport, navigator.WithLogger(logger))

	tr := nav.Activate(context.Background(), mason.Control{Href: "/api/areas/Nowhere/"}, view.AreaDetail, nil)

	assert.Equal(t, navigator.Notify{Level: navigator.LevelError, Message: "Not found"}, tr)
	assert.Equal(t, []string{"request failed"}, logger.warnings)
}

func TestActivate_NetworkFailure(t *testing.T) {
	t.Parallel()

	nav := navigator.New(mason.TransportFunc(func(context.Context, string, string, any) (*mason.Result, error) {
		return nil, errors.New("connection refused")
	}))

	tr := nav.Activate(context.Background(), mason.Control{Href: "/api/areas/"}, view.AreasList, nil)
	assert.Equal(t, navigator.Notify{Level: navigator.LevelError, Message: "connection refused"}, tr)
}

func TestActivate_InvalidControl(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	nav := navigator.New(transport)

	tr := nav.Activate(context.Background(), mason.Control{}, view.AreasList, nil)

	notify, ok := tr.(navigator.Notify)
	require.True(t, ok)
	assert.Equal(t, navigator.LevelError, notify.Level)
	assert.Empty(t, transport.calls)
}

func TestActivate_NoTransport(t *testing.T) {
	t.Parallel()

	tr := navigator.New(nil).Activate(context.Background(), mason.Control{Href: "/api/areas/"}, view.AreasList, nil)
	assert.Equal(t, navigator.Notify{Level: navigator.LevelError, Message: mason.ErrTransportRequired.Error()}, tr)
}

func TestActivate_EmptyGetBody(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: map[string]response{
		"GET /api/areas/": {result: &mason.Result{StatusCode: 204}},
	}}

	tr := navigator.New(transport).Activate(context.Background(), mason.Control{Href: "/api/areas/", Method: "GET"}, view.AreasList, nil)

	notify, ok := tr.(navigator.Notify)
	require.True(t, ok)
	assert.Equal(t, navigator.LevelError, notify.Level)
}

func TestActivate_Update(t *testing.T) {
	t.Parallel()

	edit := mason.Control{Href: "/api/areas/Kumpula/", Method: http.MethodPut}
	updated := rep(`{"name": "Kumpula 2"}`)

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]response{
			"PUT /api/areas/Kumpula/": {result: &mason.Result{StatusCode: 204}},
		}}

		tr := navigator.New(transport).Activate(context.Background(), edit, view.AreaDetail, map[string]interface{}{"name": "Kumpula 2"})

		assert.Equal(t, navigator.Notify{Level: navigator.LevelSuccess, Message: "Successful"}, tr)
		require.Len(t, transport.calls, 1)
		assert.Equal(t, map[string]interface{}{"name": "Kumpula 2"}, transport.calls[0].body)
	})

	t.Run("empty body with location", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]response{
			"PUT /api/areas/Kumpula/": {result: &mason.Result{StatusCode: 204, Location: "/api/areas/Kumpula%202/"}},
		}}

		tr := navigator.New(transport).Activate(context.Background(), edit, view.AreaDetail, map[string]interface{}{"name": "Kumpula 2"})

		assert.Equal(t, navigator.Notify{Level: navigator.LevelSuccess, Message: "Successful", Href: "/api/areas/Kumpula%202/"}, tr)
		assert.Len(t, transport.calls, 1)
	})

	t.Run("with body", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]response{
			"PUT /api/areas/Kumpula/": {result: &mason.Result{StatusCode: 200, Representation: updated}},
		}}

		tr := navigator.New(transport).Activate(context.Background(), edit, view.AreaDetail, map[string]interface{}{"name": "Kumpula 2"})

		assert.Equal(t, navigator.Batch{
			navigator.Show{Kind: view.AreaDetail, Rep: updated},
			navigator.Notify{Level: navigator.LevelSuccess, Message: "Successful"},
		}, tr)
	})
}

func TestCreateResource_WithLocation(t *testing.T) {
	t.Parallel()

	created := rep(`{"name": "Test Area", "@controls": {"self": {"href": "/api/areas/test-area/"}}}`)
	transport := &fakeTransport{responses: map[string]response{
		"POST /api/areas/":          {result: &mason.Result{StatusCode: 201, Location: "/api/areas/test-area/"}},
		"GET /api/areas/test-area/": {result: &mason.Result{StatusCode: 200, Representation: created}},
	}}

	tr := navigator.New(transport).CreateResource(context.Background(), addArea, map[string]interface{}{"name": "Test Area"})

	assert.Equal(t, navigator.Batch{
		navigator.Notify{Level: navigator.LevelSuccess, Message: "Successful"},
		navigator.Append{Rep: created},
	}, tr)

	require.Len(t, transport.calls, 2)
	assert.Equal(t, call{href: "/api/areas/", method: "POST", body: map[string]interface{}{"name": "Test Area"}}, transport.calls[0])
	assert.Equal(t, call{href: "/api/areas/test-area/", method: "GET"}, transport.calls[1])
}

func TestCreateResource_WithoutLocation(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: map[string]response{
		"POST /api/areas/": {result: &mason.Result{StatusCode: 201}},
	}}

	logger := &warnLogger{}
	tr := navigator.New(transport, navigator.WithLogger(logger)).CreateResource(context.Background(), addArea, nil)

	assert.Equal(t, navigator.Notify{Level: navigator.LevelSuccess, Message: "Successful"}, tr)
	assert.Len(t, transport.calls, 1, "no follow-up fetch without Location")
	assert.Equal(t, map[string]interface{}{}, transport.calls[0].body)
	require.Len(t, logger.warnings, 1)
}

func TestCreateResource_Conflict(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: map[string]response{
		"POST /api/areas/": {err: &mason.APIError{StatusCode: 409, Message: "Already exists"}},
	}}

	tr := navigator.New(transport).CreateResource(context.Background(), addArea, map[string]interface{}{"name": "Kumpula"})

	assert.Equal(t, navigator.Notify{Level: navigator.LevelError, Message: "Already exists"}, tr)
	assert.Len(t, transport.calls, 1)
}

func TestCreateResource_FollowUpFails(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: map[string]response{
		"POST /api/areas/": {result: &mason.Result{StatusCode: 201, Location: "/api/areas/gone/"}},
	}}

	tr := navigator.New(transport).CreateResource(context.Background(), addArea, map[string]interface{}{"name": "gone"})

	assert.Equal(t, navigator.Batch{
		navigator.Notify{Level: navigator.LevelSuccess, Message: "Successful"},
		navigator.Notify{Level: navigator.LevelError, Message: "Not found"},
	}, tr)
}

func TestSubmit_DispatchesOnIntent(t *testing.T) {
	t.Parallel()

	created := rep(`{"name": "Test Area"}`)
	transport := &fakeTransport{responses: map[string]response{
		"POST /api/areas/":          {result: &mason.Result{StatusCode: 201, Location: "/api/areas/test-area/"}},
		"GET /api/areas/test-area/": {result: &mason.Result{StatusCode: 200, Representation: created}},
		"PUT /api/areas/Kumpula/":   {result: &mason.Result{StatusCode: 204}},
	}}

	nav := navigator.New(transport)

	tr := nav.Submit(context.Background(), form.Submission{
		Control: addArea,
		Payload: map[string]interface{}{"name": "Test Area"},
		Intent:  form.IntentCreate,
	}, view.AreasList)

	batch, ok := tr.(navigator.Batch)
	require.True(t, ok)
	assert.Contains(t, batch, navigator.Append{Rep: created})

	tr = nav.Submit(context.Background(), form.Submission{
		Control: mason.Control{Href: "/api/areas/Kumpula/", Method: http.MethodPut},
		Payload: map[string]interface{}{"name": "Kumpula"},
		Intent:  form.IntentUpdate,
	}, view.AreaDetail)

	assert.Equal(t, navigator.Notify{Level: navigator.LevelSuccess, Message: "Successful"}, tr)
}
