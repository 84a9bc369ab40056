package domain

// Mode is the configured execution mode.
type Mode string

// Available modes.
const (
	// ModeOnline routes calls to the remote service when connectivity allows.
	ModeOnline Mode = "online"

	// ModeOffline routes every call to the local pipeline.
	ModeOffline Mode = "offline"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeOnline, ModeOffline:
		return Mode(s), true
	default:
		return "", false
	}
}

// IsOnline returns true for ModeOnline.
func (m Mode) IsOnline() bool {
	return m == ModeOnline
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// Route identifies the backend that served (or would serve) a call.
type Route string

// Available routes.
const (
	RouteRemote Route = "remote"
	RouteLocal  Route = "local"
)

// String returns the string representation.
func (r Route) String() string {
	return string(r)
}
