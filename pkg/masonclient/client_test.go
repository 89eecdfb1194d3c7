package masonclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/fivetwenty-io/nearby-client/pkg/masonclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		config := &mason.Config{
			APIEndpoint: "localhost:5000/",
		}

		transport, err := masonclient.New(config)
		require.NoError(t, err)
		assert.NotNil(t, transport)
		assert.Equal(t, "http://localhost:5000", config.APIEndpoint)
	})

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := masonclient.New(nil)
		require.ErrorIs(t, err, mason.ErrConfigRequired)
	})

	t.Run("requires endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := masonclient.New(&mason.Config{})
		require.ErrorIs(t, err, mason.ErrAPIEndpointRequired)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "localhost:5000", expected: "http://localhost:5000"},
		{input: "http://localhost:5000/", expected: "http://localhost:5000"},
		{input: " https://nearby.example.com ", expected: "https://nearby.example.com"},
	}

	for _, tt := range tests {
		got, err := masonclient.NormalizeEndpoint(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}

	_, err := masonclient.NormalizeEndpoint("http://")
	require.ErrorIs(t, err, mason.ErrInvalidEndpoint)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/areas/":
			_, _ = writer.Write([]byte(`{"items": [{"name": "Kumpula", "location": "Helsinki"}]}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	transport, err := masonclient.NewWithEndpoint(server.URL)
	require.NoError(t, err)

	result, err := transport.Fetch(context.Background(), "/api/areas/", "GET", nil)
	require.NoError(t, err)
	require.Len(t, result.Representation.Items(), 1)
	assert.Equal(t, "Kumpula", result.Representation.Items()[0].String("name"))

	_, err = transport.Fetch(context.Background(), "/api/areas/Nowhere/", "GET", nil)
	require.Error(t, err)
	assert.True(t, mason.IsNotFound(err))
}
