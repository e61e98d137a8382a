package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeEvent(t *testing.T) {
	t.Run("decodes known tags into typed payloads", func(t *testing.T) {
		cases := []struct {
			raw  string
			want Event
		}{
			{`{"type":"handshake","payload":{"token":"tok"}}`,
				Event{Type: EventHandshake, Payload: HandshakePayload{Token: "tok"}}},
			{`{"type":"redirect","payload":{"path":"/x"}}`,
				Event{Type: EventRedirect, Payload: RedirectPayload{Path: "/x"}}},
			{`{"type":"theme","payload":{"theme":"light"}}`,
				Event{Type: EventTheme, Payload: ThemePayload{Theme: ThemeLight}}},
			{`{"type":"response","payload":{"actionId":"a1","ok":true}}`,
				Event{Type: EventResponse, Payload: ResponsePayload{ActionID: "a1", OK: true}}},
		}

		for _, tc := range cases {
			env, err := DecodeEnvelope([]byte(tc.raw))
			require.NoError(t, err)
			ev, err := env.Event()
			require.NoError(t, err)
			assert.Equal(t, tc.want, ev)
		}
	})

	t.Run("unknown tags keep the raw payload", func(t *testing.T) {
		env := &Envelope{Type: "bogus", Payload: json.RawMessage(`{"x":1}`)}

		ev, err := env.Event()

		require.NoError(t, err)
		assert.False(t, ev.Type.Known())
		assert.Equal(t, json.RawMessage(`{"x":1}`), ev.Payload)
	})

	t.Run("malformed payload for a known tag fails", func(t *testing.T) {
		env := &Envelope{Type: "response", Payload: json.RawMessage(`[]`)}

		_, err := env.Event()

		assert.Error(t, err)
	})

	t.Run("round-trips through Encode", func(t *testing.T) {
		env := &Envelope{Type: "theme", Payload: json.RawMessage(`{"theme":"dark"}`)}

		body, err := env.Encode()
		require.NoError(t, err)
		decoded, err := DecodeEnvelope(body)
		require.NoError(t, err)

		assert.Equal(t, env, decoded)
	})
}

func TestAction(t *testing.T) {
	t.Run("generates unique identifiers per dispatch", func(t *testing.T) {
		a := NewAction("open", nil)
		b := NewAction("open", nil)

		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("envelope carries the identifier alongside action fields", func(t *testing.T) {
		action := NewAction("open", map[string]any{"target": "/settings"})

		env, err := action.Envelope()
		require.NoError(t, err)
		assert.Equal(t, "open", env.Type)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.Equal(t, action.ID, payload["actionId"])
		assert.Equal(t, "/settings", payload["target"])
	})
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeLight, ParseTheme("light"))
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
	assert.Equal(t, ThemeDark, ParseTheme(""))
	assert.Equal(t, ThemeDark, ParseTheme("Light"))
}
