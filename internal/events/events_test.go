package events_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/fivetwenty-io/nearby-client/internal/events"
	natssrv "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEmbeddedNATS(t *testing.T) string {
	t.Helper()

	srv, err := natssrv.NewServer(&natssrv.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go srv.Start()
	require.True(t, srv.ReadyForConnections(10*time.Second), "nats server did not become ready")

	t.Cleanup(func() {
		srv.Shutdown()
		srv.WaitForShutdown()
	})

	return fmt.Sprintf("nats://%s", srv.Addr().String())
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	event, err := events.NewEvent(events.TypeNotify, "/api/areas/", map[string]string{"message": "Successful"})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, events.TypeNotify, event.Type)
	assert.Equal(t, events.Source, event.Source)
	assert.Equal(t, "/api/areas/", event.Subject)
	assert.JSONEq(t, `{"message": "Successful"}`, string(event.Data))
	assert.WithinDuration(t, time.Now(), event.Time, time.Minute)

	other, err := events.NewEvent(events.TypeNotify, "", nil)
	require.NoError(t, err)
	assert.NotEqual(t, event.ID, other.ID)
	assert.Nil(t, other.Data)

	_, err = events.NewEvent(" ", "", nil)
	require.ErrorIs(t, err, events.ErrEventTypeRequired)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var publisher events.Publisher = events.Nop{}

	require.NoError(t, publisher.Publish(context.Background(), events.Event{Type: events.TypeNavigate}))
	require.NoError(t, publisher.Close())
}

func TestNATSPublisher(t *testing.T) {
	t.Parallel()

	natsURL := startEmbeddedNATS(t)

	publisher, err := events.NewNATSPublisher(events.NATSConfig{URL: natsURL, SubjectPrefix: "test.session."})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = publisher.Close()
	})

	assert.Equal(t, "test.session.append", publisher.Subject(events.TypeAppend))

	conn, err := natsgo.Connect(natsURL)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	sub, err := conn.SubscribeSync("test.session.>")
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	event, err := events.NewEvent(events.TypeAppend, "/api/areas/test-area/", map[string]string{"name": "Test Area"})
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), event))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "test.session.append", msg.Subject)

	var received events.Event

	require.NoError(t, json.Unmarshal(msg.Data, &received))
	assert.Equal(t, event.ID, received.ID)
	assert.Equal(t, "/api/areas/test-area/", received.Subject)
	assert.JSONEq(t, `{"name": "Test Area"}`, string(received.Data))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, publisher.Publish(ctx, events.Event{ID: "2", Type: events.TypeNotify}))

	msg, err = sub.NextMsg(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "test.session.notify", msg.Subject)

	err = publisher.Publish(context.Background(), events.Event{})
	require.ErrorIs(t, err, events.ErrEventTypeRequired)
}

func TestNewNATSPublisher_Errors(t *testing.T) {
	t.Parallel()

	_, err := events.NewNATSPublisher(events.NATSConfig{})
	require.ErrorIs(t, err, events.ErrNATSURLRequired)

	_, err = events.NewNATSPublisher(events.NATSConfig{URL: "nats://127.0.0.1:1"})
	require.Error(t, err)
}
