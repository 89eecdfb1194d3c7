// Package masonclient provides the main entry point for creating Mason API transports
package masonclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/nearby-client/internal/client"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
)

// New creates a transport for the API described by config.
func New(config *mason.Config) (mason.Transport, error) {
	if config == nil {
		return nil, mason.ErrConfigRequired
	}

	apiEndpoint, err := NormalizeEndpoint(config.APIEndpoint)
	if err != nil {
		return nil, err
	}

	config.APIEndpoint = apiEndpoint

	transport, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return transport, nil
}

// NormalizeEndpoint trims a trailing slash, adds "http://" when no scheme is
// present and checks the result has a host.
func NormalizeEndpoint(endpoint string) (string, error) {
	apiEndpoint := strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if apiEndpoint == "" {
		return "", mason.ErrAPIEndpointRequired
	}

	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "http://" + apiEndpoint
	}

	parsed, err := url.Parse(apiEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", mason.ErrInvalidEndpoint, err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", mason.ErrInvalidEndpoint, endpoint)
	}

	return apiEndpoint, nil
}

// NewWithEndpoint creates a transport with just an API endpoint.
func NewWithEndpoint(endpoint string) (mason.Transport, error) {
	return New(&mason.Config{
		APIEndpoint: endpoint,
	})
}
