package core

// Action is a semantic input, decoupled from the key that produced it.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow: thrust in the hunter sample
	ActionConfirm        // Enter
	ActionBack           // B, Escape
	ActionPause          // P
	ActionOverlay        // Shift+Tab: toggle the platform overlay
	ActionWin            // 1: debug shortcut that records a won game
	ActionLoss           // 2: debug shortcut that records a lost game
	ActionResetDistance  // X: zero the session distance
	ActionResetAll       // R: reset every stat and achievement
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionPause:
		return "Pause"
	case ActionOverlay:
		return "Overlay"
	case ActionWin:
		return "Win"
	case ActionLoss:
		return "Loss"
	case ActionResetDistance:
		return "ResetDistance"
	case ActionResetAll:
		return "ResetAll"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear drops all actions so the frame can be reused.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
