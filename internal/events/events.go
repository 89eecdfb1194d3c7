// Package events publishes what happens in a browsing session so other
// processes can follow along.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as the last subject token.
const (
	TypeNavigate = "navigate"
	TypeAppend   = "append"
	TypeNotify   = "notify"
)

// Source identifies this client in published events.
const Source = "nearby-client"

// Static errors for err113 compliance.
var (
	ErrEventTypeRequired = errors.New("event type is required")
)

// Event is one published session change.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Source  string          `json:"source"`
	Subject string          `json:"subject,omitempty"`
	Time    time.Time       `json:"time"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an event with a fresh ID and data encoded as JSON. subject
// is usually the href of the affected resource.
func NewEvent(eventType, subject string, data any) (Event, error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return Event{}, ErrEventTypeRequired
	}

	event := Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Source:  Source,
		Subject: subject,
		Time:    time.Now().UTC(),
	}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("encoding %s event data: %w", eventType, err)
		}

		event.Data = raw
	}

	return event, nil
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
