package tui

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Board layout constants
const (
	cellWidth    = 2  // Screen columns per field cell
	sidebarGap   = 2  // Columns between board and sidebar
	sidebarWidth = 14 // Width of the next/lines panel
	previewCells = 4  // Preview box fits the largest piece
)

// boardView is everything needed to draw one frame of the game.
type boardView struct {
	grid      [][]tetris.Cell
	active    *tetris.Piece
	next      *tetris.Piece
	ghostDY   int
	lines     int
	seed      int64
	sound     string // "on", "off" or empty when audio is unavailable
	flashRows []int
	paused    bool
	over      bool
}

// viewOf captures the drawable state of a controller.
func viewOf(c *engine.Controller) boardView {
	return boardView{
		grid:    c.Grid(),
		active:  c.Active(),
		next:    c.Next(),
		ghostDY: c.DropDistance(),
		lines:   c.ClearedLines(),
		seed:    c.Seed(),
		paused:  c.Paused(),
		over:    c.IsOver(),
	}
}

// boardSize returns the screen footprint of a field including its border.
func boardSize(fieldW, fieldH int) (w, h int) {
	return fieldW*cellWidth + 2, fieldH + 2
}

// layoutBoard centers the board and its sidebar on the screen.
func layoutBoard(screenW, screenH, fieldW, fieldH int) core.Rect {
	w, h := boardSize(fieldW, fieldH)
	total := w + sidebarGap + sidebarWidth
	x := core.Max((screenW-total)/2, 0)
	y := core.Max((screenH-h)/2, 0)
	return core.NewRect(x, y, w, h)
}

// drawGame renders the board, sidebar and any overlay onto s.
func drawGame(s *core.Screen, v boardView) {
	fieldH := len(v.grid)
	fieldW := 0
	if fieldH > 0 {
		fieldW = len(v.grid[0])
	}

	w, h := boardSize(fieldW, fieldH)
	if s.Width() < w+sidebarGap+sidebarWidth || s.Height() < h {
		s.DrawTextCentered(s.Height()/2, fmt.Sprintf("terminal too small: need %dx%d", w+sidebarGap+sidebarWidth, h+1))
		return
	}

	board := layoutBoard(s.Width(), s.Height(), fieldW, fieldH)
	drawBoard(s, board, v)
	drawSidebar(s, core.NewRect(board.Right()+sidebarGap, board.Y, sidebarWidth, board.H), v)

	switch {
	case v.over:
		drawOverlay(s, board, "GAME OVER", fmt.Sprintf("lines %d", v.lines), "r new game", "q quit")
	case v.paused:
		drawOverlay(s, board, "PAUSED", "p resume")
	}
}

// drawBoard draws the settled grid, the ghost and the active piece.
func drawBoard(s *core.Screen, r core.Rect, v boardView) {
	s.DrawBox(r)
	ox, oy := r.X+1, r.Y+1

	for y, row := range v.grid {
		if slices.Contains(v.flashRows, y) {
			for x := range row {
				drawCell(s, ox+x*cellWidth, oy+y, '▓', core.ColorBrightWhite)
			}
			continue
		}
		for x, cell := range row {
			if c, ok := cell.Color(); ok {
				drawCell(s, ox+x*cellWidth, oy+y, '█', c)
				continue
			}
			s.SetCell(ox+x*cellWidth, oy+y, ' ', core.ColorGray)
			s.SetCell(ox+x*cellWidth+1, oy+y, '·', core.ColorGray)
		}
	}

	if v.active == nil {
		return
	}
	if v.ghostDY > 0 && !v.over {
		drawPiece(s, ox, oy, v.active, v.ghostDY, '░', core.ColorGray)
	}
	drawPiece(s, ox, oy, v.active, 0, '█', v.active.Color())
}

// drawPiece draws the cells of p shifted down by dy. Cells above the top
// edge are skipped.
func drawPiece(s *core.Screen, ox, oy int, p *tetris.Piece, dy int, r rune, c core.Color) {
	for _, pt := range p.Cells() {
		y := pt.Y + dy
		if y < 0 {
			continue
		}
		drawCell(s, ox+pt.X*cellWidth, oy+y, r, c)
	}
}

func drawCell(s *core.Screen, x, y int, r rune, c core.Color) {
	for i := range cellWidth {
		s.SetCell(x+i, y, r, c)
	}
}

// drawSidebar draws the next-piece preview and the counters.
func drawSidebar(s *core.Screen, r core.Rect, v boardView) {
	s.DrawTextColor(r.X, r.Y, "NEXT", core.ColorBrightWhite)
	preview := core.NewRect(r.X, r.Y+1, previewCells*cellWidth+2, previewCells+2)
	s.DrawBox(preview)
	if v.next != nil {
		m := v.next.Matrix()
		offX := (previewCells - len(m)) / 2
		offY := (previewCells - len(m)) / 2
		for y, row := range m {
			for x, filled := range row {
				if filled {
					drawCell(s, preview.X+1+(offX+x)*cellWidth, preview.Y+1+offY+y, '█', v.next.Color())
				}
			}
		}
	}

	y := preview.Bottom() + 1
	s.DrawTextColor(r.X, y, "LINES", core.ColorBrightWhite)
	s.DrawText(r.X, y+1, fmt.Sprintf("%d", v.lines))
	s.DrawTextColor(r.X, y+3, "SEED", core.ColorGray)
	s.DrawTextColor(r.X, y+4, fmt.Sprintf("%d", v.seed), core.ColorGray)
	if v.sound != "" {
		s.DrawTextColor(r.X, y+6, "SOUND "+v.sound, core.ColorGray)
	}
}

// drawOverlay draws a framed message box centered over r. The first line
// is the title.
func drawOverlay(s *core.Screen, r core.Rect, lines ...string) {
	width := 0
	for _, l := range lines {
		width = core.Max(width, len([]rune(l)))
	}
	box := core.NewRect(0, 0, width+4, len(lines)+2)
	box.X = r.X + (r.W-box.W)/2
	box.Y = r.Y + (r.H-box.H)/2

	s.DrawRect(box, ' ')
	s.DrawBox(box)
	for i, l := range lines {
		x := box.X + (box.W-len([]rune(l)))/2
		c := core.ColorDefault
		if i == 0 {
			c = core.ColorBrightWhite
		}
		s.DrawTextColor(x, box.Y+1+i, l, c)
	}
}
