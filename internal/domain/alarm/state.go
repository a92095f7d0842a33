package alarm

import "github.com/oshokin/notif-panel/internal/domain/severity"

// Actor identifies who performed an action in the system.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string
	// Username is the system user who triggered the action.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the actor as username@hostname.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return a.Username + "@" + a.Hostname
}

// State is the visual and audio alarm state of the panel.
type State int

// Alarm states.
const (
	// Idle means no notification with a known severity is present.
	Idle State = iota
	// InfoActive means the most severe notification is informational.
	InfoActive
	// WarningActive means the most severe notification is major or minor.
	WarningActive
	// CriticalActive means at least one critical notification is present.
	CriticalActive
)

// StateFor maps the highest active severity to an alarm state.
func StateFor(highest severity.Severity) State {
	switch highest {
	case severity.Critical:
		return CriticalActive
	case severity.Major, severity.Minor:
		return WarningActive
	case severity.Info:
		return InfoActive
	default:
		return Idle
	}
}

// IsActive reports whether any alarm is raised.
func (s State) IsActive() bool {
	return s != Idle
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InfoActive:
		return "info"
	case WarningActive:
		return "warning"
	case CriticalActive:
		return "critical"
	default:
		return "unknown"
	}
}
