// Package state holds the bridge's shared state snapshot and the pure
// reducer that advances it from inbound events.
package state

import (
	"sync"

	"github.com/framelink/framelink-go/contracts"
)

// Container owns the current BridgeState snapshot. The snapshot is a value
// and is replaced wholesale on every accepted event, so readers never
// observe a partially updated state. No validation happens here; callers
// supply a complete, consistent state.
type Container struct {
	mu    sync.RWMutex
	state contracts.BridgeState
}

// NewContainer creates a container seeded with the initial state.
func NewContainer(initial contracts.BridgeState) *Container {
	return &Container{state: initial}
}

// State returns the current snapshot.
func (c *Container) State() contracts.BridgeState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Replace swaps in the next snapshot atomically.
func (c *Container) Replace(next contracts.BridgeState) {
	c.mu.Lock()
	c.state = next
	c.mu.Unlock()
}
