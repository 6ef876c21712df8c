package theme

import "strings"

// Mode is the display mode.
type Mode int

const (
	Light Mode = iota
	Dark
)

// String returns "light" or "dark".
func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// ParseMode parses "light" or "dark", ignoring case and surrounding space.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, true
	case "dark":
		return Dark, true
	}
	return Light, false
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values decode
// as Light.
func (m *Mode) UnmarshalText(b []byte) error {
	*m, _ = ParseMode(string(b))
	return nil
}
