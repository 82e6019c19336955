package render

// Action is a user request decoded by a backend.
type Action int

const (
	ActionNone Action = iota
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionTogglePause
	ActionStep
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:        "none",
	ActionPanLeft:     "pan_left",
	ActionPanRight:    "pan_right",
	ActionPanUp:       "pan_up",
	ActionPanDown:     "pan_down",
	ActionTogglePause: "toggle_pause",
	ActionStep:        "step",
	ActionQuit:        "quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// KeyAction maps a key rune to an action: WASD pans, space pauses,
// '.' steps while paused, q quits.
func KeyAction(r rune) Action {
	switch r {
	case 'a', 'A':
		return ActionPanLeft
	case 'd', 'D':
		return ActionPanRight
	case 'w', 'W':
		return ActionPanUp
	case 's', 'S':
		return ActionPanDown
	case ' ':
		return ActionTogglePause
	case '.':
		return ActionStep
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// Backend presents frames and reports user input.
type Backend interface {
	// Present draws f and returns the actions requested since the last call.
	Present(f *Frame) []Action
	// Close releases the backend.
	Close()
}
