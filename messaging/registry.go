package messaging

import (
	"sync"

	"github.com/framelink/framelink-go/contracts"
	"github.com/google/uuid"
)

// Callback receives the payload of one event during fan-out.
type Callback func(payload any)

// SubscriptionRegistry maps event types to registered callbacks, each held
// under an opaque unique token. Registry lifetime equals the bridge
// instance's lifetime; nothing is persisted.
type SubscriptionRegistry struct {
	mu   sync.RWMutex
	subs map[contracts.EventType]map[string]Callback
}

// NewSubscriptionRegistry creates an empty registry.
func NewSubscriptionRegistry() *SubscriptionRegistry {
	return &SubscriptionRegistry{
		subs: make(map[contracts.EventType]map[string]Callback),
	}
}

// Subscribe registers a callback for one event type and returns the closure
// that removes exactly that registration. The closure is idempotent: calls
// after the first successful removal are no-ops.
func (r *SubscriptionRegistry) Subscribe(eventType contracts.EventType, cb Callback) func() {
	token := uuid.New().String()

	r.mu.Lock()
	bucket, ok := r.subs[eventType]
	if !ok {
		bucket = make(map[string]Callback)
		r.subs[eventType] = bucket
	}
	bucket[token] = cb
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		if bucket, ok := r.subs[eventType]; ok {
			delete(bucket, token)
		}
		r.mu.Unlock()
	}
}

// UnsubscribeAll clears the given event types, or every bucket when called
// with no arguments. Clearing an empty registry is a no-op.
func (r *SubscriptionRegistry) UnsubscribeAll(eventTypes ...contracts.EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.subs = make(map[contracts.EventType]map[string]Callback)
		return
	}
	for _, t := range eventTypes {
		delete(r.subs, t)
	}
}

// Notify invokes every callback currently registered for the event type
// with the payload. The token set is snapshotted before iterating, and each
// token is re-checked against the live bucket right before its callback
// runs, so a callback unsubscribing itself or others mid-notification never
// corrupts the pass, skips an unrelated still-registered callback, or
// double-invokes anything.
func (r *SubscriptionRegistry) Notify(eventType contracts.EventType, payload any) {
	r.mu.RLock()
	bucket := r.subs[eventType]
	tokens := make([]string, 0, len(bucket))
	for token := range bucket {
		tokens = append(tokens, token)
	}
	r.mu.RUnlock()

	for _, token := range tokens {
		r.mu.RLock()
		cb, ok := r.subs[eventType][token]
		r.mu.RUnlock()
		if !ok {
			continue // removed during this pass
		}
		cb(payload)
	}
}

// Count returns the number of live registrations for an event type.
func (r *SubscriptionRegistry) Count(eventType contracts.EventType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[eventType])
}
