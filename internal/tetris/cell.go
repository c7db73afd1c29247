package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Cell is one square of the settled grid: either empty or filled with the
// color of the piece that locked there. The zero Cell is empty.
type Cell struct {
	color  core.Color
	filled bool
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// Filled returns a cell occupied by the given color.
func Filled(c core.Color) Cell {
	return Cell{color: c, filled: true}
}

// IsEmpty reports whether nothing has locked into this cell.
func (c Cell) IsEmpty() bool {
	return !c.filled
}

// Color returns the cell's color and whether the cell is filled.
func (c Cell) Color() (core.Color, bool) {
	return c.color, c.filled
}
