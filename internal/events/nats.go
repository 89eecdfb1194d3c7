package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired = errors.New("NATS URL is required")
)

// NATSConfig configures a NATS publisher.
type NATSConfig struct {
	URL           string
	Name          string
	SubjectPrefix string
}

// NATSPublisher publishes events as JSON on "<prefix>.<type>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the NATS server in cfg.
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNATSURLRequired
	}

	name := cfg.Name
	if name == "" {
		name = constants.NATSClientName
	}

	prefix := strings.Trim(strings.TrimSpace(cfg.SubjectPrefix), ".")
	if prefix == "" {
		prefix = constants.DefaultSubjectPrefix
	}

	conn, err := nats.Connect(cfg.URL, nats.Name(name))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", cfg.URL, err)
	}

	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

// Subject returns the subject events of eventType are published on.
func (p *NATSPublisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

// Publish implements Publisher. It waits for the server to acknowledge the
// flush or for ctx to end.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if event.Type == "" {
		return ErrEventTypeRequired
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	err = p.conn.Publish(p.Subject(event.Type), data)
	if err != nil {
		return fmt.Errorf("publishing %s event: %w", event.Type, err)
	}

	if _, ok := ctx.Deadline(); ok {
		err = p.conn.FlushWithContext(ctx)
	} else {
		err = p.conn.FlushTimeout(constants.ShortHTTPTimeout)
	}

	if err != nil {
		return fmt.Errorf("flushing %s event: %w", event.Type, err)
	}

	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}
