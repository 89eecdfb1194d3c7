package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/nearby-client/internal/http"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
)

// Client implements mason.Transport on top of the internal HTTP layer.
type Client struct {
	httpClient *internalhttp.Client
	baseURL    string
	entryPoint string
	logger     mason.Logger
}

var _ mason.Transport = (*Client)(nil)

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *mason.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new transport for the configured API endpoint.
func New(config *mason.Config) (*Client, error) {
	if config == nil {
		return nil, mason.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, mason.ErrAPIEndpointRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = mason.NopLogger{}
	}

	entryPoint := config.EntryPoint
	if entryPoint == "" {
		entryPoint = constants.DefaultEntryPoint
	}

	httpClient := internalhttp.NewClient(config.APIEndpoint, createHTTPClientOptions(config)...)

	return &Client{
		httpClient: httpClient,
		baseURL:    httpClient.BaseURL(),
		entryPoint: entryPoint,
		logger:     logger,
	}, nil
}

// BaseURL returns the API endpoint relative hrefs resolve against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// EntryPoint returns the href of the first resource to load.
func (c *Client) EntryPoint() string {
	return c.entryPoint
}

// Fetch implements mason.Transport.Fetch.
func (c *Client) Fetch(ctx context.Context, href, method string, body any) (*mason.Result, error) {
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()

	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: method,
		Path:   href,
		Body:   body,
	})
	if err != nil {
		c.logger.Debug("request failed", map[string]interface{}{
			"method":  method,
			"href":    href,
			"error":   err.Error(),
			"elapsed": time.Since(start).String(),
		})

		return nil, fmt.Errorf("%s %s: %w", method, href, err)
	}

	result := &mason.Result{
		Location:   c.resolveLocation(resp.Headers.Get("Location"), resp.URL),
		StatusCode: resp.StatusCode,
		Header:     resp.Headers,
	}

	if len(resp.Body) > 0 {
		rep, err := mason.Parse(resp.Body)

		switch {
		case err == nil:
			result.Representation = rep
		case method != http.MethodGet:
			// the write succeeded, only its body is unusable
			c.logger.Debug("ignoring non-Mason body of write response", map[string]interface{}{
				"method":      method,
				"href":        href,
				"status_code": resp.StatusCode,
				"error":       err.Error(),
			})
		default:
			return nil, fmt.Errorf("%w: %s %s: %w", mason.ErrUnexpectedBody, method, href, err)
		}
	}

	c.logger.Debug("request completed", map[string]interface{}{
		"method":      method,
		"href":        href,
		"status_code": resp.StatusCode,
		"location":    result.Location,
		"elapsed":     time.Since(start).String(),
	})

	return result, nil
}

// resolveLocation resolves a Location header against the URL of the request
// that returned it. Locations on the API host are returned as paths.
func (c *Client) resolveLocation(location string, requestURL *url.URL) string {
	if location == "" || requestURL == nil {
		return location
	}

	ref, err := url.Parse(location)
	if err != nil {
		return location
	}

	resolved := requestURL.ResolveReference(ref)

	base, err := url.Parse(c.baseURL)
	if err != nil || resolved.Scheme != base.Scheme || resolved.Host != base.Host {
		return resolved.String()
	}

	resolved.Scheme = ""
	resolved.Host = ""
	resolved.User = nil

	return resolved.String()
}

// loggerAdapter adapts mason.Logger to internalhttp.Logger.
type loggerAdapter struct {
	logger mason.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
