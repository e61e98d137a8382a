package contracts

// EventType identifies the kind of inbound event sent by the peer.
type EventType string

const (
	EventHandshake EventType = "handshake"
	EventRedirect  EventType = "redirect"
	EventTheme     EventType = "theme"
	EventResponse  EventType = "response"
)

// Known reports whether the event type belongs to the protocol's tagged
// union. Inbound data is untrusted, so unknown tags must be tolerated.
func (t EventType) Known() bool {
	switch t {
	case EventHandshake, EventRedirect, EventTheme, EventResponse:
		return true
	}
	return false
}

// HandshakePayload carries the peer token delivered at handshake.
type HandshakePayload struct {
	Token string `json:"token"`
}

// RedirectPayload carries a path change requested by the peer.
type RedirectPayload struct {
	Path string `json:"path"`
}

// ThemePayload carries a theme change requested by the peer.
type ThemePayload struct {
	Theme Theme `json:"theme"`
}

// ResponsePayload settles a previously dispatched action. ActionID matches
// the identifier generated at dispatch time; OK reports whether the peer
// accepted the action.
type ResponsePayload struct {
	ActionID string `json:"actionId"`
	OK       bool   `json:"ok"`
}

// Event is one decoded inbound message. Payload holds the typed payload
// struct for the tag (HandshakePayload, RedirectPayload, ThemePayload or
// ResponsePayload), or the raw bytes when the tag is unknown.
type Event struct {
	Type    EventType
	Payload any
}
