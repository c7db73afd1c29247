package engine

import "github.com/vovakirdan/blockfall/internal/tetris"

// Event is a notification raised by the controller while applying an action.
type Event interface {
	engineEvent()
}

// LockEvent is raised when the active piece is written into the grid.
type LockEvent struct {
	Kind  tetris.Kind
	Cells []tetris.Point // Absolute cells, including any above the top edge
}

func (LockEvent) engineEvent() {}

// LineClearEvent is raised once per lock that completes at least one row.
type LineClearEvent struct {
	Count int
	Rows  []int // Bottom to top, numbered before the clear
}

func (LineClearEvent) engineEvent() {}

// GameOverEvent is raised when a spawned piece collides.
type GameOverEvent struct {
	ClearedLines int
}

func (GameOverEvent) engineEvent() {}

// ResetEvent is raised after the field is reinitialised.
type ResetEvent struct{}

func (ResetEvent) engineEvent() {}

// PauseEvent is raised when the pause state changes.
type PauseEvent struct {
	Paused bool
}

func (PauseEvent) engineEvent() {}

// Observer receives controller notifications synchronously, in the order
// lock, line clear, game over. Implementations must not call back into the
// controller.
type Observer interface {
	OnLock(p *tetris.Piece)
	OnLineClear(count int, rows []int)
	OnGameOver()
}

// NopObserver implements Observer with no-ops. Embed it to handle only
// some notifications.
type NopObserver struct{}

func (NopObserver) OnLock(*tetris.Piece) {}
func (NopObserver) OnLineClear(int, []int) {}
func (NopObserver) OnGameOver() {}
