package tetris

import "strings"

// StateType is the coarse state of a field.
type StateType string

const (
	StatePlaying  StateType = "playing"
	StateGameOver StateType = "game_over"
)

// Snapshot captures the complete field state for determinism testing and replay.
type Snapshot struct {
	Width        int
	Height       int
	Rows         []string // Settled grid, '#' filled and '.' empty, top row first
	ActiveKind   string
	ActiveX      int
	ActiveY      int
	NextKind     string
	ClearedLines int
	State        StateType
}

// Snapshot returns the current field snapshot. It does not mutate the field.
func (f *Field) Snapshot() Snapshot {
	rows := make([]string, f.height)
	for y, row := range f.grid {
		var sb strings.Builder
		for _, c := range row {
			if c.IsEmpty() {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		rows[y] = sb.String()
	}

	s := Snapshot{
		Width:        f.width,
		Height:       f.height,
		Rows:         rows,
		ClearedLines: f.clearedLines,
		State:        StatePlaying,
	}
	if f.over {
		s.State = StateGameOver
	}
	if f.active != nil {
		s.ActiveKind = f.active.kind.String()
		s.ActiveX = f.active.x
		s.ActiveY = f.active.y
	}
	if f.next != nil {
		s.NextKind = f.next.kind.String()
	}
	return s
}

// String renders the settled grid with the active piece overlaid as '@'.
func (f *Field) String() string {
	overlay := make(map[Point]bool)
	if f.active != nil {
		for _, c := range f.active.Cells() {
			overlay[c] = true
		}
	}

	var sb strings.Builder
	for y, row := range f.grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x, c := range row {
			switch {
			case overlay[Point{X: x, Y: y}]:
				sb.WriteByte('@')
			case c.IsEmpty():
				sb.WriteByte('.')
			default:
				sb.WriteByte('#')
			}
		}
	}
	return sb.String()
}
