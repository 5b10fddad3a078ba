// Package broker delivers serialized messages to a durable message broker.
package broker

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const ContentTypeJSON = "application/json"

// Message is one unit handed to a broker. Queue is the durable queue (or
// topic) name; ID is stable across redeliveries of the same message.
type Message struct {
	ID          string
	Queue       string
	Key         string
	ContentType string
	Body        []byte
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Options selects and configures a publisher.
type Options struct {
	Kind        string // "amqp" or "kafka"
	URL         string // AMQP URL
	Brokers     string // comma separated Kafka brokers
	DialTimeout time.Duration
}

func New(opts Options) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", "amqp", "rabbitmq":
		return NewAMQPPublisher(opts.URL, opts.DialTimeout), nil
	case "kafka":
		return NewKafkaPublisher(opts.Brokers)
	default:
		return nil, fmt.Errorf("broker: unknown kind %q", opts.Kind)
	}
}
