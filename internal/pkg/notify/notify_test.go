package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, Notification) error {
	f.calls++
	return errors.New("broker down")
}

func (f *failingPublisher) Close() error { return nil }

type capturingPublisher struct{ sent []Notification }

func (c *capturingPublisher) Publish(_ context.Context, n Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func (c *capturingPublisher) Close() error { return nil }

func TestDispatcher_SwallowsFailures(t *testing.T) {
	var buf bytes.Buffer
	pub := &failingPublisher{}
	d := NewDispatcher(pub, zerolog.New(&buf))

	d.Notify(context.Background(), Notification{Kind: EventApproved, Recipient: "john@klu.ac.in"})

	assert.Equal(t, 1, pub.calls)
	assert.Contains(t, buf.String(), "broker down")
	assert.Contains(t, buf.String(), "event.approved")
}

func TestDispatcher_StampsTime(t *testing.T) {
	pub := &capturingPublisher{}
	d := NewDispatcher(pub, zerolog.Nop())
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	d.Notify(context.Background(), Notification{Kind: ClaimSubmitted})

	require.Len(t, pub.sent, 1)
	assert.Equal(t, fixed, pub.sent[0].OccurredAt)
	assert.Equal(t, ClaimSubmitted, pub.sent[0].Kind)
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	d.Notify(context.Background(), Notification{Kind: EventDeleted})
	assert.NoError(t, d.Close())
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))
	require.NoError(t, p.Publish(context.Background(), Notification{
		Kind:      RegistrationCreated,
		Recipient: "john@klu.ac.in",
		Subject:   "Registered for Tech Symposium",
	}))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "registration.created", line["kind"])
	assert.Equal(t, "Registered for Tech Symposium", line["message"])
}

func TestNewPublisher(t *testing.T) {
	p, err := NewPublisher(Config{Driver: DriverNone}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)

	p, err = NewPublisher(Config{Driver: DriverLog}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)

	p, err = NewPublisher(Config{Driver: DriverKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())

	_, err = NewPublisher(Config{Driver: "smoke-signals"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestWireFormats(t *testing.T) {
	n := Notification{
		Kind:       EventRejected,
		Recipient:  "john@klu.ac.in",
		Subject:    "Event rejected",
		Data:       map[string]string{"eventId": "e1"},
		OccurredAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	msg, err := kafkaMessage(n)
	require.NoError(t, err)
	assert.Equal(t, "john@klu.ac.in", string(msg.Key))
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, "event.rejected", string(msg.Headers[0].Value))

	pub, err := publishing(n)
	require.NoError(t, err)
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, "event.rejected", pub.Type)

	var decoded Notification
	require.NoError(t, json.Unmarshal(pub.Body, &decoded))
	assert.Equal(t, n, decoded)
}
