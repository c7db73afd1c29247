// Package tetris implements the falling-block rules: tetromino geometry,
// the settled grid, collision, locking, line clearing and game over.
// It is pure state with no I/O; callers drive it with discrete commands.
package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Kind identifies one of the seven tetromino shapes.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// Kinds lists every shape in canonical order.
var Kinds = [...]Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

// String returns the single-letter shape name.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	default:
		return "?"
	}
}

// Point is an absolute field coordinate.
type Point struct {
	X, Y int
}

// shapes holds the spawn orientation of each kind. Matrix size is per kind:
// 4x4 for I, 2x2 for O and 3x3 for the rest.
var shapes = map[Kind][]string{
	KindI: {
		"....",
		"####",
		"....",
		"....",
	},
	KindO: {
		"##",
		"##",
	},
	KindT: {
		".#.",
		"###",
		"...",
	},
	KindS: {
		".##",
		"##.",
		"...",
	},
	KindZ: {
		"##.",
		".##",
		"...",
	},
	KindJ: {
		"#..",
		"###",
		"...",
	},
	KindL: {
		"..#",
		"###",
		"...",
	},
}

var kindColors = map[Kind]core.Color{
	KindI: core.ColorCyan,
	KindO: core.ColorYellow,
	KindT: core.ColorMagenta,
	KindS: core.ColorGreen,
	KindZ: core.ColorRed,
	KindJ: core.ColorBlue,
	KindL: core.ColorOrange,
}

// ColorOf returns the fixed color for a kind.
func ColorOf(k Kind) core.Color {
	return kindColors[k]
}

// Piece is a tetromino: its shape matrix, color and anchor on the field.
// The anchor (x, y) locates the matrix's top-left corner.
type Piece struct {
	kind   Kind
	color  core.Color
	matrix [][]bool
	x, y   int
}

// NewPiece creates a piece of the given kind in spawn orientation at (x, y).
func NewPiece(kind Kind, x, y int) *Piece {
	rows := shapes[kind]
	m := make([][]bool, len(rows))
	for r, line := range rows {
		m[r] = make([]bool, len(line))
		for c, ch := range line {
			m[r][c] = ch == '#'
		}
	}
	return &Piece{
		kind:   kind,
		color:  kindColors[kind],
		matrix: m,
		x:      x,
		y:      y,
	}
}

// Kind returns the piece shape.
func (p *Piece) Kind() Kind { return p.kind }

// Color returns the piece color.
func (p *Piece) Color() core.Color { return p.color }

// X returns the anchor column.
func (p *Piece) X() int { return p.x }

// Y returns the anchor row.
func (p *Piece) Y() int { return p.y }

// Size returns the matrix dimension N of the N×N shape matrix.
func (p *Piece) Size() int { return len(p.matrix) }

// Matrix returns a copy of the occupancy matrix, indexed [row][col].
func (p *Piece) Matrix() [][]bool {
	return copyMatrix(p.matrix)
}

// Cells returns the absolute field coordinates of every occupied sub-cell,
// in row-major order.
func (p *Piece) Cells() []Point {
	cells := make([]Point, 0, 4)
	for r, row := range p.matrix {
		for c, on := range row {
			if on {
				cells = append(cells, Point{X: p.x + c, Y: p.y + r})
			}
		}
	}
	return cells
}

// Clone returns an independent copy of the piece.
func (p *Piece) Clone() *Piece {
	clone := *p
	clone.matrix = copyMatrix(p.matrix)
	return &clone
}

// RotateRight rotates the matrix clockwise in place: new[x][n-1-y] = old[y][x].
// The anchor is unchanged. O pieces do not rotate.
func (p *Piece) RotateRight() {
	if p.kind == KindO {
		return
	}
	n := len(p.matrix)
	rotated := newMatrix(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			rotated[x][n-1-y] = p.matrix[y][x]
		}
	}
	p.matrix = rotated
}

// RotateLeft rotates the matrix counter-clockwise in place:
// new[n-1-x][y] = old[y][x]. It is the exact inverse of RotateRight.
func (p *Piece) RotateLeft() {
	if p.kind == KindO {
		return
	}
	n := len(p.matrix)
	rotated := newMatrix(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			rotated[n-1-x][y] = p.matrix[y][x]
		}
	}
	p.matrix = rotated
}

// moveTo repositions the anchor.
func (p *Piece) moveTo(x, y int) {
	p.x, p.y = x, y
}

func newMatrix(n int) [][]bool {
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	return m
}

func copyMatrix(src [][]bool) [][]bool {
	dst := make([][]bool, len(src))
	for i, row := range src {
		dst[i] = make([]bool, len(row))
		copy(dst[i], row)
	}
	return dst
}
