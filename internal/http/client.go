// Package http is the low-level HTTP layer used by the nearby client.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger is the structured logger used by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs requests against a Mason API.
type Client struct {
	baseURL    *url.URL
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// Request describes a single API call. Path may be absolute or relative to
// the client's base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a fully read HTTP response. URL is the final request URL,
// after redirects.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	URL        *url.URL
}

// Static errors for err113 compliance.
var (
	ErrInvalidBaseURL = errors.New("invalid base URL")
)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries of transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets a client-wide timeout for every attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a client for baseURL. Without WithRetryConfig every
// request is attempted exactly once.
func NewClient(baseURL string, opts ...Option) *Client {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		parsed = &url.URL{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    parsed,
		httpClient: retryClient,
		logger:     mason.NopLogger{},
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the URL relative hrefs are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Resolve turns a control href into an absolute URL.
func (c *Client) Resolve(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing href %q: %w", href, err)
	}

	if ref.IsAbs() {
		return ref.String(), nil
	}

	if c.baseURL.Scheme == "" || c.baseURL.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.baseURL.String())
	}

	return c.baseURL.ResolveReference(ref).String(), nil
}

// Do executes the request. For non-2xx responses both the response and a
// *mason.APIError are returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.Resolve(req.Path)
	if err != nil {
		return nil, err
	}

	if len(req.Query) > 0 {
		parsed, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parsing request URL: %w", err)
		}

		query := parsed.Query()
		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		parsed.RawQuery = query.Encode()
		target = parsed.String()
	}

	var body io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.AcceptHeader)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", constants.MediaTypeJSON)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", mason.ErrRequestFailed, req.Method, target, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       data,
		URL:        httpReq.URL,
	}

	if httpResp.Request != nil {
		resp.URL = httpResp.Request.URL
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         target,
			"status_code": resp.StatusCode,
			"location":    httpResp.Header.Get("Location"),
		})
	}

	if resp.StatusCode < constants.HTTPStatusOK || resp.StatusCode >= constants.HTTPStatusMultipleChoices {
		return resp, mason.ParseErrorEnvelope(resp.StatusCode, data)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
