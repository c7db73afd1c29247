package tetris

import "fmt"

// Standard field dimensions.
const (
	DefaultWidth  = 10
	DefaultHeight = 20

	// MinSize is the smallest width or height that fits every piece.
	MinSize = 4
)

// Outcome classifies what a command did to the field.
type Outcome int

const (
	OutcomeIgnored  Outcome = iota // Game is over; nothing changed
	OutcomeMoved                   // Piece moved or rotated
	OutcomeBlocked                 // Geometry rejected the move; nothing changed
	OutcomeLocked                  // Piece locked, lines cleared, next piece spawned
	OutcomeGameOver                // Piece locked and the next spawn collided
)

// String returns a lowercase name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMoved:
		return "moved"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeLocked:
		return "locked"
	case OutcomeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MoveResult describes the effect of a downward move.
type MoveResult struct {
	Outcome Outcome
	// Rows holds cleared row indices, bottom to top, as they were numbered
	// before the clear. Empty unless the lock completed rows.
	Rows []int
	// Locked is the piece written into the grid, if any.
	Locked *Piece
}

// Field is the playing surface: the settled grid plus the active and next
// pieces. Field is not safe for concurrent use.
type Field struct {
	width, height int
	grid          [][]Cell
	active        *Piece
	next          *Piece
	clearedLines  int
	over          bool
	rand          Randomizer
}

// NewField creates an empty field and spawns the first active and next pieces.
func NewField(width, height int, r Randomizer) (*Field, error) {
	if width < MinSize || height < MinSize {
		return nil, fmt.Errorf("tetris: field %dx%d is smaller than %dx%d", width, height, MinSize, MinSize)
	}
	if r == nil {
		return nil, fmt.Errorf("tetris: nil randomizer")
	}
	f := &Field{
		width:  width,
		height: height,
		rand:   r,
	}
	f.Reset()
	return f, nil
}

// Reset empties the grid, zeroes counters and spawns fresh pieces.
// The randomizer keeps its sequence.
func (f *Field) Reset() {
	f.grid = make([][]Cell, f.height)
	for y := range f.grid {
		f.grid[y] = make([]Cell, f.width)
	}
	f.active = nil
	f.next = nil
	f.clearedLines = 0
	f.over = false
	f.spawn()
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// ClearedLines returns the rows cleared since the last reset.
func (f *Field) ClearedLines() int { return f.clearedLines }

// IsOver reports whether a spawned piece collided.
func (f *Field) IsOver() bool { return f.over }

// Active returns a copy of the active piece, or nil.
func (f *Field) Active() *Piece {
	if f.active == nil {
		return nil
	}
	return f.active.Clone()
}

// Next returns a copy of the queued piece, or nil.
func (f *Field) Next() *Piece {
	if f.next == nil {
		return nil
	}
	return f.next.Clone()
}

// At returns the settled cell at (x, y). Out-of-range coordinates are empty.
func (f *Field) At(x, y int) Cell {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Empty()
	}
	return f.grid[y][x]
}

// Grid returns a deep copy of the settled cells, indexed [row][col].
func (f *Field) Grid() [][]Cell {
	g := make([][]Cell, f.height)
	for y, row := range f.grid {
		g[y] = make([]Cell, f.width)
		copy(g[y], row)
	}
	return g
}

// Collides reports whether p overlaps a wall, the floor or a settled cell.
// Sub-cells above the top edge are only checked against the side walls.
func (f *Field) Collides(p *Piece) bool {
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= f.width || c.Y >= f.height {
			return true
		}
		if c.Y >= 0 && !f.grid[c.Y][c.X].IsEmpty() {
			return true
		}
	}
	return false
}

func (f *Field) playable() bool {
	return !f.over && f.active != nil
}

// MoveLeft shifts the active piece one column left.
func (f *Field) MoveLeft() bool {
	return f.shift(-1)
}

// MoveRight shifts the active piece one column right.
func (f *Field) MoveRight() bool {
	return f.shift(1)
}

func (f *Field) shift(dx int) bool {
	if !f.playable() {
		return false
	}
	p := f.active
	p.moveTo(p.x+dx, p.y)
	if f.Collides(p) {
		p.moveTo(p.x-dx, p.y)
		return false
	}
	return true
}

// RotateRight rotates the active piece clockwise, undoing it if blocked.
func (f *Field) RotateRight() bool {
	if !f.playable() {
		return false
	}
	f.active.RotateRight()
	if f.Collides(f.active) {
		f.active.RotateLeft()
		return false
	}
	return true
}

// RotateLeft rotates the active piece counter-clockwise, undoing it if blocked.
func (f *Field) RotateLeft() bool {
	if !f.playable() {
		return false
	}
	f.active.RotateLeft()
	if f.Collides(f.active) {
		f.active.RotateRight()
		return false
	}
	return true
}

// MoveDown drops the active piece one row. When the piece cannot move it is
// locked, full rows are cleared and the next piece spawns.
func (f *Field) MoveDown() MoveResult {
	if !f.playable() {
		return MoveResult{Outcome: OutcomeIgnored}
	}
	p := f.active
	p.moveTo(p.x, p.y+1)
	if !f.Collides(p) {
		return MoveResult{Outcome: OutcomeMoved}
	}
	p.moveTo(p.x, p.y-1)
	return f.lock()
}

// Tick applies one step of gravity.
func (f *Field) Tick() MoveResult {
	return f.MoveDown()
}

// HardDrop moves the active piece down until it locks and returns the
// locking result.
func (f *Field) HardDrop() MoveResult {
	for {
		res := f.MoveDown()
		if res.Outcome != OutcomeMoved {
			return res
		}
	}
}

// DropDistance returns how many rows the active piece can fall before it
// would lock. It does not change the field.
func (f *Field) DropDistance() int {
	if !f.playable() {
		return 0
	}
	ghost := f.active.Clone()
	n := 0
	for {
		ghost.moveTo(ghost.x, ghost.y+1)
		if f.Collides(ghost) {
			return n
		}
		n++
	}
}

// lock writes the active piece into the grid, clears full rows and spawns
// the next piece.
func (f *Field) lock() MoveResult {
	p := f.active
	for _, c := range p.Cells() {
		if c.Y < 0 || c.Y >= f.height || c.X < 0 || c.X >= f.width {
			continue
		}
		f.grid[c.Y][c.X] = Filled(p.color)
	}
	f.active = nil

	rows := f.clearLines()
	f.clearedLines += len(rows)

	f.spawn()

	res := MoveResult{Outcome: OutcomeLocked, Rows: rows, Locked: p}
	if f.over {
		res.Outcome = OutcomeGameOver
	}
	return res
}

// clearLines removes full rows in one bottom-up sweep and returns their
// pre-clear indices in detection order.
func (f *Field) clearLines() []int {
	var rows []int
	for y := f.height - 1; y >= 0; {
		if !f.rowFull(y) {
			y--
			continue
		}
		// Each earlier clear moved this row down by one.
		rows = append(rows, y-len(rows))
		for r := y; r > 0; r-- {
			copy(f.grid[r], f.grid[r-1])
		}
		for x := range f.grid[0] {
			f.grid[0][x] = Empty()
		}
		// Same index again: the row above has moved into it.
	}
	return rows
}

func (f *Field) rowFull(y int) bool {
	for _, c := range f.grid[y] {
		if c.IsEmpty() {
			return false
		}
	}
	return true
}

// spawn promotes the next piece (or draws one on the first spawn), centers
// it at the top, queues a new next piece and checks for game over.
func (f *Field) spawn() {
	p := f.next
	if p == nil {
		p = RandomPiece(f.rand, 0, 0)
	}
	p.moveTo(f.width/2-p.Size()/2, 0)
	f.active = p
	f.next = RandomPiece(f.rand, 0, 0)

	if f.Collides(p) {
		f.over = true
	}
}
