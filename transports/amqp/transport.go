// Package amqp provides an AMQP-backed peer channel, bridging two processes
// through a broker instead of an in-page boundary. Envelopes travel as JSON
// bodies; the sender origin rides in the x-bridge-origin header so the
// receiving router can apply its origin gate unchanged.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/framelink/framelink-go/contracts"
	"github.com/framelink/framelink-go/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
)

const originHeader = "x-bridge-origin"

// Transport implements messaging.Transport over a RabbitMQ connection.
// Each side posts to the peer's queue and consumes from its own.
type Transport struct {
	conn    *amqp.Connection
	channel *amqp.Channel

	origin    string
	sendQueue string
	recvQueue string
	logger    *slog.Logger

	mu        sync.Mutex
	consuming bool
	closed    bool
}

// TransportConfig holds configuration for the transport.
type TransportConfig struct {
	Logger *slog.Logger
}

// TransportOption configures the transport.
type TransportOption func(*TransportConfig)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TransportOption {
	return func(cfg *TransportConfig) {
		cfg.Logger = logger
	}
}

// Dial connects to the broker and declares both queues. origin is stamped
// on every outbound message; sendQueue is the peer's inbox, recvQueue this
// side's.
func Dial(url, origin, sendQueue, recvQueue string, options ...TransportOption) (*Transport, error) {
	cfg := &TransportConfig{Logger: slog.Default()}
	for _, opt := range options {
		opt(cfg)
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, queue := range []string{sendQueue, recvQueue} {
		if _, err := channel.QueueDeclare(queue, false, true, false, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
	}

	return &Transport{
		conn:      conn,
		channel:   channel,
		origin:    origin,
		sendQueue: sendQueue,
		recvQueue: recvQueue,
		logger:    cfg.Logger,
	}, nil
}

// Post publishes the envelope to the peer's queue.
func (t *Transport) Post(ctx context.Context, env *contracts.Envelope) error {
	body, err := env.Encode()
	if err != nil {
		return err
	}

	err = t.channel.PublishWithContext(ctx, "", t.sendQueue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{originHeader: t.origin},
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", t.sendQueue, err)
	}
	return nil
}

// Receive starts consuming this side's queue, feeding each message to the
// handler with the origin taken from the x-bridge-origin header.
func (t *Transport) Receive(handler messaging.DeliveryHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.consuming {
		return fmt.Errorf("receive handler already registered")
	}

	deliveries, err := t.channel.Consume(t.recvQueue, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", t.recvQueue, err)
	}
	t.consuming = true

	go func() {
		for d := range deliveries {
			handler(delivery{d})
		}
		t.logger.Debug("consume channel closed", "queue", t.recvQueue)
	}()
	return nil
}

// Close shuts down the channel and connection. The consume loop ends when
// the broker closes the delivery stream.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.channel.Close(); err != nil {
		t.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return t.conn.Close()
}

type delivery struct {
	d amqp.Delivery
}

func (d delivery) Body() []byte { return d.d.Body }

func (d delivery) Origin() string {
	if v, ok := d.d.Headers[originHeader].(string); ok {
		return v
	}
	return ""
}
