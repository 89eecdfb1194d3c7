package mason

import (
	"context"
	"time"
)

// Transport performs a single request against a control's href.
//
// On a 2xx response it returns the parsed representation (nil for an empty
// body) together with the Location header. On failure it returns an error,
// which is an *APIError whenever the server answered. There is no retry
// unless the concrete transport is configured for it.
type Transport interface {
	Fetch(ctx context.Context, href, method string, body any) (*Result, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, href, method string, body any) (*Result, error)

// Fetch implements Transport.
func (f TransportFunc) Fetch(ctx context.Context, href, method string, body any) (*Result, error) {
	return f(ctx, href, method, body)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}

// Config represents client configuration for building a Transport.
//
// # Endpoint and entry point
//
// APIEndpoint is the base URL of the API (e.g. "http://localhost:5000").
// masonclient.New trims a trailing slash and adds "http://" when no scheme
// is present. Relative control hrefs are resolved against it. EntryPoint is
// the href loaded first, normally the areas collection.
//
// # Timeouts and retries
//
// Requests are attempted exactly once by default and have no timeout: a
// hung request is bounded only by the caller's context. HTTPTimeout and
// RetryMax opt in to a client-wide timeout and to retrying transient
// failures (>=500 and connection errors).
type Config struct {
	// APIEndpoint: base URL for the API.
	APIEndpoint string
	// EntryPoint: href of the first resource to load.
	EntryPoint string

	// Optional configurations
	// HTTPTimeout: optional client-wide timeout; zero means none.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures; zero means a single attempt.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and the navigator.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}
