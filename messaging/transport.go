package messaging

import (
	"context"

	"github.com/framelink/framelink-go/contracts"
)

// Publisher posts envelopes toward the peer. Posting is wildcard-targeted:
// the receiving side's own origin check governs trust, not the sender's.
type Publisher interface {
	// Post sends an envelope to the peer.
	Post(ctx context.Context, env *contracts.Envelope) error
}

// Delivery is one inbound message from the transport, annotated with the
// sender origin the transport observed.
type Delivery interface {
	// Body returns the raw envelope bytes.
	Body() []byte

	// Origin returns the sender origin string.
	Origin() string
}

// DeliveryHandler consumes inbound deliveries.
type DeliveryHandler func(d Delivery)

// Transport is a bidirectional channel to exactly one peer.
type Transport interface {
	Publisher

	// Receive registers the handler invoked for every inbound delivery.
	// At most one handler is active; registering again replaces it.
	Receive(handler DeliveryHandler) error

	// Close releases the channel. Posting after Close fails.
	Close() error
}
