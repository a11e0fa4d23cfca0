package environment

// RuntimeState is the live status of an environment. The standard values
// are listed below; any other non-empty value is a custom state.
type RuntimeState string

const (
	StateActive       RuntimeState = "Active"
	StateConnecting   RuntimeState = "Connecting"
	StateDisconnected RuntimeState = "Disconnected"
	StateError        RuntimeState = "Error"
	StateHibernated   RuntimeState = "Hibernated"
)

// IsStandard reports whether s is one of the predefined states.
func (s RuntimeState) IsStandard() bool {
	switch s {
	case StateActive, StateConnecting, StateDisconnected, StateError, StateHibernated:
		return true
	default:
		return false
	}
}

func (s RuntimeState) String() string {
	return string(s)
}

// Description is the text shown under an environment's name.
type Description struct {
	// Text is nil when there is nothing to show.
	Text Text

	// Override is true when Text came from an explicit state update
	// message rather than from the config.
	Override bool
}

// String returns the rendered description, or "" if there is none.
func (d Description) String() string {
	if d.Text == nil {
		return ""
	}
	return d.Text.String()
}
