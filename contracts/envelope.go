package contracts

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire shape exchanged with the peer in both directions:
// {type, payload}. Payload stays raw until the receiving side decodes it
// according to the type tag.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode serializes the envelope for transport.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEnvelope parses raw transport bytes into an envelope.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	return &env, nil
}

// Event decodes the envelope into a typed Event. Known tags get their typed
// payload struct; unknown tags keep the raw payload so the router can log
// and discard them without failing.
func (e *Envelope) Event() (Event, error) {
	t := EventType(e.Type)
	switch t {
	case EventHandshake:
		var p HandshakePayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return Event{}, fmt.Errorf("malformed %s payload: %w", t, err)
		}
		return Event{Type: t, Payload: p}, nil
	case EventRedirect:
		var p RedirectPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return Event{}, fmt.Errorf("malformed %s payload: %w", t, err)
		}
		return Event{Type: t, Payload: p}, nil
	case EventTheme:
		var p ThemePayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return Event{}, fmt.Errorf("malformed %s payload: %w", t, err)
		}
		return Event{Type: t, Payload: p}, nil
	case EventResponse:
		var p ResponsePayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return Event{}, fmt.Errorf("malformed %s payload: %w", t, err)
		}
		return Event{Type: t, Payload: p}, nil
	default:
		return Event{Type: t, Payload: e.Payload}, nil
	}
}
