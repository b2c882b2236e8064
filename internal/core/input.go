package core

// Action represents a semantic game action, abstracted from physical key presses.
// Directional actions are delivered as press/release edges; the rest are
// one-shot commands.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A - steer left while descending
	ActionRight          // Right arrow, D - steer right while descending
	ActionUp             // Up arrow, W - steer up while geosteering
	ActionDown           // Down arrow, S - steer down while geosteering
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B - go back to menu
	ActionRestart        // R - restart after the run ended
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P, Escape - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Axis identifies the steering axis a directional action acts on.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

// Direction returns the axis and sign of a directional action.
// Non-directional actions return (AxisNone, 0).
func (a Action) Direction() (Axis, int) {
	switch a {
	case ActionLeft:
		return AxisX, -1
	case ActionRight:
		return AxisX, 1
	case ActionUp:
		return AxisY, -1
	case ActionDown:
		return AxisY, 1
	default:
		return AxisNone, 0
	}
}

// IsDirectional reports whether the action steers the drill.
func (a Action) IsDirectional() bool {
	axis, _ := a.Direction()
	return axis != AxisNone
}
