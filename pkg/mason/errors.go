package mason

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a failed request, described by the "@error" envelope
// of the response.
type APIError struct {
	StatusCode int      `json:"status_code"        yaml:"status_code"`
	Message    string   `json:"message"            yaml:"message"`
	Messages   []string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
}

// Details returns the longer human-readable descriptions, if any.
func (e *APIError) Details() string {
	return strings.Join(e.Messages, "; ")
}

type errorEnvelope struct {
	Error *struct {
		Message  string   `json:"@message"`
		Messages []string `json:"@messages"`
	} `json:"@error"`
}

// ParseErrorEnvelope builds an APIError from a failed response. When the body
// carries no usable "@error.@message" the message falls back to the status
// line, so a malformed envelope never leaves the user without a message.
func ParseErrorEnvelope(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var envelope errorEnvelope
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
		apiErr.Message = strings.TrimSpace(envelope.Error.Message)
		apiErr.Messages = envelope.Error.Messages
	}

	if apiErr.Message == "" {
		apiErr.Message = statusLine(statusCode)
	}

	return apiErr
}

func statusLine(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("%d Unknown Status", statusCode)
	}

	return fmt.Sprintf("%d %s", statusCode, text)
}

// ErrorMessage returns the text to show a user for err: the envelope
// message for API errors, the error text for anything else.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return err.Error()
}

// StatusCode returns the HTTP status of an API error, or 0.
func StatusCode(err error) int {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict checks if the error reports an already existing resource.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsBadRequest checks if the server rejected the submitted payload.
func IsBadRequest(err error) bool {
	code := StatusCode(err)

	return code == http.StatusBadRequest || code == http.StatusUnsupportedMediaType
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrTransportRequired   = errors.New("transport is required")
	ErrRequestFailed       = errors.New("request failed")
	ErrUnexpectedBody      = errors.New("unexpected response body")
	ErrInvalidEndpoint     = errors.New("invalid API endpoint")
)
