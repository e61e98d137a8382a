package contracts

// Theme selects the visual theme requested by the peer.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a raw query or payload value to a Theme. Anything other
// than the exact string "light" resolves to ThemeDark.
func ParseTheme(raw string) Theme {
	if raw == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// BridgeState is the shared state snapshot synchronized from inbound events.
// It is a value type and is always replaced wholesale, never mutated in
// place. Ready becomes true only after a handshake event, and Token is set
// exactly once at handshake and never cleared afterwards.
type BridgeState struct {
	Domain string `json:"domain"`
	ID     string `json:"id"`
	Path   string `json:"path"`
	Theme  Theme  `json:"theme"`
	Ready  bool   `json:"ready"`
	Token  string `json:"token,omitempty"`
}
