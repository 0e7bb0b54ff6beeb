package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Kind identifies what happened
type Kind string

const (
	RegistrationCreated   Kind = "registration.created"
	RegistrationCancelled Kind = "registration.cancelled"
	AttendanceMarked      Kind = "attendance.marked"
	EventSubmitted        Kind = "event.submitted"
	EventApproved         Kind = "event.approved"
	EventRejected         Kind = "event.rejected"
	EventDeleted          Kind = "event.deleted"
	ClaimSubmitted        Kind = "claim.submitted"
	ClaimReviewed         Kind = "claim.reviewed"
)

// Drivers
const (
	DriverLog   = "log"
	DriverNone  = "none"
	DriverAMQP  = "amqp"
	DriverKafka = "kafka"
)

// Notification is a domain event addressed to one recipient
type Notification struct {
	Kind       Kind              `json:"kind"`
	Recipient  string            `json:"recipient"`
	Subject    string            `json:"subject"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

func (n Notification) encode() ([]byte, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}
	return body, nil
}

// Publisher delivers notifications to a sink
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

// Config selects and configures the publisher
type Config struct {
	Driver       string
	AMQPURL      string
	AMQPQueue    string
	KafkaBrokers []string
	KafkaTopic   string
}

// NewPublisher builds the publisher for the configured driver
func NewPublisher(cfg Config, log zerolog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case DriverLog, "":
		return NewLogPublisher(log), nil
	case DriverNone:
		return NopPublisher{}, nil
	case DriverAMQP:
		return NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
	case DriverKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown notification driver %q", cfg.Driver)
	}
}

// LogPublisher writes each notification as a structured log line
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, n Notification) error {
	p.log.Info().
		Str("kind", string(n.Kind)).
		Str("recipient", n.Recipient).
		Interface("data", n.Data).
		Msg(n.Subject)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// NopPublisher drops everything
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Notification) error { return nil }
func (NopPublisher) Close() error                                { return nil }

// Dispatcher sends notifications without letting delivery failures reach
// the caller
type Dispatcher struct {
	publisher Publisher
	log       zerolog.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewDispatcher wraps a publisher. A nil publisher drops everything.
func NewDispatcher(publisher Publisher, log zerolog.Logger) *Dispatcher {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Dispatcher{
		publisher: publisher,
		log:       log,
		timeout:   3 * time.Second,
		now:       time.Now,
	}
}

// Notify publishes n, logging and swallowing any error
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if d == nil {
		return
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = d.now()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, n); err != nil {
		d.log.Warn().Err(err).Str("kind", string(n.Kind)).Str("recipient", n.Recipient).Msg("Failed to publish notification")
	}
}

// Close closes the underlying publisher
func (d *Dispatcher) Close() error {
	if d == nil {
		return nil
	}
	return d.publisher.Close()
}
