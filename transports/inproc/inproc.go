// Package inproc provides an in-process transport linking two bridge
// endpoints in the same process. Envelopes are serialized and carried over
// buffered channels, and every delivery is annotated with the posting
// side's origin, mirroring what a real cross-boundary transport reports.
// It is the transport used by the test suite.
package inproc

import (
	"context"
	"fmt"
	"sync"

	"github.com/framelink/framelink-go/contracts"
	"github.com/framelink/framelink-go/messaging"
)

const inboxSize = 32

type frame struct {
	origin string
	body   []byte
}

// Endpoint is one side of a linked pair. It implements
// messaging.Transport.
type Endpoint struct {
	origin string
	inbox  chan frame
	closed chan struct{}
	once   sync.Once
	peer   *Endpoint

	mu      sync.Mutex
	pumping bool
}

// Pair creates two linked endpoints. A post on one side is delivered to the
// other, annotated with the poster's origin.
func Pair(originA, originB string) (*Endpoint, *Endpoint) {
	a := &Endpoint{origin: originA, inbox: make(chan frame, inboxSize), closed: make(chan struct{})}
	b := &Endpoint{origin: originB, inbox: make(chan frame, inboxSize), closed: make(chan struct{})}
	a.peer = b
	b.peer = a
	return a, b
}

// Origin returns the origin this endpoint stamps on its outbound messages.
func (e *Endpoint) Origin() string {
	return e.origin
}

// Post serializes the envelope into the peer's inbox.
func (e *Endpoint) Post(ctx context.Context, env *contracts.Envelope) error {
	body, err := env.Encode()
	if err != nil {
		return err
	}

	select {
	case e.peer.inbox <- frame{origin: e.origin, body: body}:
		return nil
	case <-e.peer.closed:
		return fmt.Errorf("peer endpoint closed")
	case <-e.closed:
		return fmt.Errorf("endpoint closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive starts a pump goroutine feeding inbound frames to the handler.
// Frames posted before Receive sit in the inbox until the pump starts.
func (e *Endpoint) Receive(handler messaging.DeliveryHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pumping {
		return fmt.Errorf("receive handler already registered")
	}
	e.pumping = true

	go func() {
		for {
			select {
			case f := <-e.inbox:
				handler(delivery{f})
			case <-e.closed:
				return
			}
		}
	}()
	return nil
}

// Close stops delivery on this side. Safe to call more than once.
func (e *Endpoint) Close() error {
	e.once.Do(func() { close(e.closed) })
	return nil
}

type delivery struct {
	f frame
}

func (d delivery) Body() []byte   { return d.f.body }
func (d delivery) Origin() string { return d.f.origin }
