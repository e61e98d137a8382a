package messaging

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/framelink/framelink-go/contracts"
	"github.com/framelink/framelink-go/state"
)

// InboundRouter processes every message arriving from the transport: it
// gates on the sender origin, advances the shared state through the reducer
// and fans the event out to subscribers. The read-reduce-write sequence is
// serialized, so each inbound message observes the state left by the
// previous one.
type InboundRouter struct {
	peerOrigin string
	container  *state.Container
	registry   *SubscriptionRegistry
	logger     *slog.Logger
	rejectHook func(origin string)

	commitMu sync.Mutex
	dropped  atomic.Uint64
}

// RouterOption configures the InboundRouter.
type RouterOption func(*InboundRouter)

// WithRouterLogger sets the logger.
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *InboundRouter) {
		r.logger = logger
	}
}

// WithOriginRejectHook installs a callback invoked with the sender origin
// of every dropped message. The rejected payload is never processed; the
// hook only observes the drop.
func WithOriginRejectHook(hook func(origin string)) RouterOption {
	return func(r *InboundRouter) {
		r.rejectHook = hook
	}
}

// NewInboundRouter creates a router accepting messages only from
// peerOrigin.
func NewInboundRouter(peerOrigin string, container *state.Container, registry *SubscriptionRegistry, opts ...RouterOption) (*InboundRouter, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	r := &InboundRouter{
		peerOrigin: peerOrigin,
		container:  container,
		registry:   registry,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Bind registers the router as the transport's delivery handler.
func (r *InboundRouter) Bind(t Transport) error {
	return t.Receive(r.HandleDelivery)
}

// HandleDelivery decodes one transport delivery and routes it.
func (r *InboundRouter) HandleDelivery(d Delivery) {
	env, err := contracts.DecodeEnvelope(d.Body())
	if err != nil {
		r.logger.Warn("discarding undecodable message", "origin", d.Origin(), "error", err)
		return
	}
	r.Route(d.Origin(), env)
}

// Route applies one inbound envelope: origin gate, reduce and commit, then
// fan-out. Mismatched origins are dropped without processing the payload.
// Unknown event tags leave the state untouched and are not fanned out.
func (r *InboundRouter) Route(origin string, env *contracts.Envelope) {
	if origin != r.peerOrigin {
		r.dropped.Add(1)
		r.logger.Debug("dropping message from unexpected origin",
			"origin", origin,
			"peerOrigin", r.peerOrigin,
		)
		if r.rejectHook != nil {
			r.rejectHook(origin)
		}
		return
	}

	event, err := env.Event()
	if err != nil {
		r.logger.Warn("discarding malformed event payload", "eventType", env.Type, "error", err)
		return
	}
	if !event.Type.Known() {
		r.logger.Warn("ignoring unrecognized event tag", "eventType", env.Type)
		return
	}

	r.commitMu.Lock()
	next := state.Reduce(r.container.State(), event)
	r.container.Replace(next)
	r.commitMu.Unlock()

	r.registry.Notify(event.Type, event.Payload)
}

// DroppedOriginCount returns how many inbound messages were dropped by the
// origin gate.
func (r *InboundRouter) DroppedOriginCount() uint64 {
	return r.dropped.Load()
}
