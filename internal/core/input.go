package core

import "fmt"

// Action represents a discrete intent sent to the engine, abstracted from
// physical key presses. Gravity is an action too, so a recorded stream of
// actions fully determines a game.
type Action int

const (
	ActionNone        Action = iota
	ActionLeft               // Left, H, A - shift piece left
	ActionRight              // Right, L, D - shift piece right
	ActionSoftDrop           // Down, J, S - move piece down one row
	ActionRotateLeft         // Z - rotate counter-clockwise
	ActionRotateRight        // X, Up - rotate clockwise
	ActionHardDrop           // Space - drop until the piece locks
	ActionTick               // Gravity step issued by the driver
	ActionReset              // R - start over
	ActionPause              // P, Escape - pause/unpause
	ActionToggleSound        // M - sound effects on/off (driver only)
	ActionQuit               // Q, Ctrl+C - exit (driver only)
)

// actionCodes maps journaled actions to single-byte codes.
// Driver-only actions have no code and are never journaled.
var actionCodes = map[Action]byte{
	ActionLeft:        'L',
	ActionRight:       'R',
	ActionSoftDrop:    'D',
	ActionRotateLeft:  'Z',
	ActionRotateRight: 'X',
	ActionHardDrop:    'H',
	ActionTick:        'T',
	ActionReset:       'N',
	ActionPause:       'P',
}

var codeActions = func() map[byte]Action {
	m := make(map[byte]Action, len(actionCodes))
	for a, c := range actionCodes {
		m[c] = a
	}
	return m
}()

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionRotateLeft:
		return "RotateLeft"
	case ActionRotateRight:
		return "RotateRight"
	case ActionHardDrop:
		return "HardDrop"
	case ActionTick:
		return "Tick"
	case ActionReset:
		return "Reset"
	case ActionPause:
		return "Pause"
	case ActionToggleSound:
		return "ToggleSound"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Journaled reports whether the action changes engine state and therefore
// belongs in a replay.
func (a Action) Journaled() bool {
	_, ok := actionCodes[a]
	return ok
}

// EncodeActions packs journaled actions into a compact string.
// Actions without a code are skipped.
func EncodeActions(actions []Action) string {
	buf := make([]byte, 0, len(actions))
	for _, a := range actions {
		if c, ok := actionCodes[a]; ok {
			buf = append(buf, c)
		}
	}
	return string(buf)
}

// DecodeActions is the inverse of EncodeActions.
func DecodeActions(s string) ([]Action, error) {
	actions := make([]Action, 0, len(s))
	for i := 0; i < len(s); i++ {
		a, ok := codeActions[s[i]]
		if !ok {
			return nil, fmt.Errorf("core: unknown action code %q at offset %d", s[i], i)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// InputFrame collects the actions triggered during one driver frame.
// Order is preserved: the engine applies actions in the order they arrived.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set appends an action to this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Clear resets the frame, keeping its storage for reuse.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}
