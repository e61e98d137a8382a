package contracts

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Action is an outbound request to the peer. Every action carries a
// generated ID unique for the lifetime of overlapping dispatches; the peer
// echoes it back in the correlating response event.
type Action struct {
	ID     string
	Type   string
	Fields map[string]any
}

// NewAction creates an action with a generated unique identifier. Fields
// holds the action-specific payload fields and may be nil.
func NewAction(actionType string, fields map[string]any) Action {
	return Action{
		ID:     uuid.New().String(),
		Type:   actionType,
		Fields: fields,
	}
}

// Envelope builds the outbound wire shape for the action:
// {type, payload: {actionId, ...fields}}.
func (a Action) Envelope() (*Envelope, error) {
	payload := make(map[string]any, len(a.Fields)+1)
	for k, v := range a.Fields {
		payload[k] = v
	}
	payload["actionId"] = a.ID

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal action %s payload: %w", a.Type, err)
	}
	return &Envelope{Type: a.Type, Payload: body}, nil
}
