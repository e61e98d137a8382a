package state

import (
	"github.com/framelink/framelink-go/contracts"
)

// Reduce maps the current state and one inbound event to the next state.
// It is pure and total: it never mutates its input and never fails, so the
// router can apply it unconditionally. Events with unknown tags or payloads
// of an unexpected shape leave the state unchanged.
func Reduce(s contracts.BridgeState, e contracts.Event) contracts.BridgeState {
	switch e.Type {
	case contracts.EventHandshake:
		if p, ok := e.Payload.(contracts.HandshakePayload); ok {
			s.Ready = true
			s.Token = p.Token
		}
	case contracts.EventRedirect:
		if p, ok := e.Payload.(contracts.RedirectPayload); ok {
			s.Path = p.Path
		}
	case contracts.EventTheme:
		if p, ok := e.Payload.(contracts.ThemePayload); ok {
			s.Theme = p.Theme
		}
	case contracts.EventResponse:
		// Responses settle pending dispatches only; shared state is untouched.
	}
	return s
}
