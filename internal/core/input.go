package core

import "strings"

// Action represents a semantic game action, abstracted from physical key presses
// and on-screen buttons. Adapters translate their input into actions.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionPause          // P - pause a running game
	ActionResume         // C - resume a paused game
	ActionToggle         // Space - start, pause or resume depending on phase
	ActionNewGame        // N, R - start a fresh game
	ActionSave           // Ctrl+S - save the current game
	ActionLoad           // Ctrl+L - load the saved game
	ActionQuit           // Q, Ctrl+C - exit the session
)

var actionNames = map[Action]string{
	ActionNone:    "none",
	ActionUp:      "up",
	ActionDown:    "down",
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionPause:   "pause",
	ActionResume:  "resume",
	ActionToggle:  "toggle",
	ActionNewGame: "new",
	ActionSave:    "save",
	ActionLoad:    "load",
	ActionQuit:    "quit",
}

// String returns the wire name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsDirection reports whether the action steers the body.
func (a Action) IsDirection() bool {
	return a >= ActionUp && a <= ActionRight
}

// ParseAction converts a wire name (case-insensitive) back to an Action.
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, true
		}
	}
	return ActionNone, false
}
