// Package engine drives a tetris.Field with discrete actions. It translates
// player commands and gravity ticks into field operations, raises events
// for collaborators, and journals every state-changing action so a game can
// be replayed from its seed.
package engine

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Options configures a new Controller.
type Options struct {
	Width      int    // Field columns; 0 selects tetris.DefaultWidth
	Height     int    // Field rows; 0 selects tetris.DefaultHeight
	Seed       int64  // Randomizer seed
	Randomizer string // "uniform" (default) or "bag"

	// Source overrides Randomizer with a caller-supplied piece sequence.
	// Games built this way cannot be replayed from their options.
	Source tetris.Randomizer
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = tetris.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = tetris.DefaultHeight
	}
	if o.Randomizer == "" {
		o.Randomizer = tetris.RandomizerUniform
	}
	return o
}

// Result describes the effect of one applied action.
type Result struct {
	Action  core.Action
	Outcome tetris.Outcome
	Rows    []int // Cleared rows, when the action locked a piece
	Events  []Event
}

// StepResult contains the outcome of applying one input frame.
type StepResult struct {
	State  core.GameState
	Events []Event
}

// Controller owns a Field and is its only mutator.
// It is not safe for concurrent use; the driver serialises calls.
type Controller struct {
	opts      Options
	field     *tetris.Field
	observers []Observer
	journal   []core.Action
	paused    bool
}

// New creates a controller with a freshly spawned field.
func New(opts Options) (*Controller, error) {
	opts = opts.withDefaults()

	r := opts.Source
	if r == nil {
		var err error
		r, err = tetris.NewRandomizer(opts.Randomizer, opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}
	f, err := tetris.NewField(opts.Width, opts.Height, r)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &Controller{opts: opts, field: f}, nil
}

// Subscribe registers an observer for lock, line-clear and game-over
// notifications. Observers are called in registration order.
func (c *Controller) Subscribe(o Observer) {
	if o == nil {
		return
	}
	c.observers = append(c.observers, o)
}

// Apply performs a single action. Driver-only actions (quit, sound toggle)
// and actions arriving while paused or after game over are ignored.
func (c *Controller) Apply(a core.Action) Result {
	res := Result{Action: a, Outcome: tetris.OutcomeIgnored}

	switch a {
	case core.ActionReset:
		c.field.Reset()
		c.paused = false
		c.record(a)
		res.Outcome = tetris.OutcomeMoved
		res.Events = []Event{ResetEvent{}}
		return res

	case core.ActionPause:
		if c.field.IsOver() {
			return res
		}
		c.paused = !c.paused
		c.record(a)
		res.Outcome = tetris.OutcomeMoved
		res.Events = []Event{PauseEvent{Paused: c.paused}}
		return res
	}

	if c.paused || c.field.IsOver() {
		return res
	}

	switch a {
	case core.ActionLeft:
		res.Outcome = boolOutcome(c.field.MoveLeft())
	case core.ActionRight:
		res.Outcome = boolOutcome(c.field.MoveRight())
	case core.ActionRotateLeft:
		res.Outcome = boolOutcome(c.field.RotateLeft())
	case core.ActionRotateRight:
		res.Outcome = boolOutcome(c.field.RotateRight())
	case core.ActionSoftDrop:
		c.applyMove(&res, c.field.MoveDown())
	case core.ActionTick:
		c.applyMove(&res, c.field.Tick())
	case core.ActionHardDrop:
		c.applyMove(&res, c.field.HardDrop())
	default:
		return res
	}

	switch res.Outcome {
	case tetris.OutcomeMoved, tetris.OutcomeLocked, tetris.OutcomeGameOver:
		c.record(a)
	}
	return res
}

// applyMove turns a downward move result into events and notifications.
func (c *Controller) applyMove(res *Result, mr tetris.MoveResult) {
	res.Outcome = mr.Outcome
	res.Rows = mr.Rows
	if mr.Locked == nil {
		return
	}

	res.Events = append(res.Events, LockEvent{Kind: mr.Locked.Kind(), Cells: mr.Locked.Cells()})
	for _, o := range c.observers {
		o.OnLock(mr.Locked.Clone())
	}

	if n := len(mr.Rows); n > 0 {
		res.Events = append(res.Events, LineClearEvent{Count: n, Rows: mr.Rows})
		for _, o := range c.observers {
			o.OnLineClear(n, append([]int(nil), mr.Rows...))
		}
	}

	if mr.Outcome == tetris.OutcomeGameOver {
		res.Events = append(res.Events, GameOverEvent{ClearedLines: c.field.ClearedLines()})
		for _, o := range c.observers {
			o.OnGameOver()
		}
	}
}

// record journals a if it has a replay code.
func (c *Controller) record(a core.Action) {
	if a.Journaled() {
		c.journal = append(c.journal, a)
	}
}

func boolOutcome(ok bool) tetris.Outcome {
	if ok {
		return tetris.OutcomeMoved
	}
	return tetris.OutcomeBlocked
}

// Step applies every action of an input frame in order.
func (c *Controller) Step(in core.InputFrame) StepResult {
	var events []Event
	for _, a := range in.Actions {
		res := c.Apply(a)
		events = append(events, res.Events...)
	}
	return StepResult{State: c.State(), Events: events}
}

// State returns the externally visible game status.
func (c *Controller) State() core.GameState {
	return core.GameState{
		Lines:    c.field.ClearedLines(),
		GameOver: c.field.IsOver(),
		Paused:   c.paused,
	}
}

// Options returns the options the controller was created with,
// with defaults filled in.
func (c *Controller) Options() Options { return c.opts }

// Seed returns the randomizer seed.
func (c *Controller) Seed() int64 { return c.opts.Seed }

// Paused reports whether gravity and commands are suspended.
func (c *Controller) Paused() bool { return c.paused }

// IsOver reports whether the game has ended.
func (c *Controller) IsOver() bool { return c.field.IsOver() }

// ClearedLines returns the rows cleared since the last reset.
func (c *Controller) ClearedLines() int { return c.field.ClearedLines() }

// Width returns the field width.
func (c *Controller) Width() int { return c.field.Width() }

// Height returns the field height.
func (c *Controller) Height() int { return c.field.Height() }

// Grid returns a copy of the settled cells.
func (c *Controller) Grid() [][]tetris.Cell { return c.field.Grid() }

// At returns the settled cell at (x, y).
func (c *Controller) At(x, y int) tetris.Cell { return c.field.At(x, y) }

// Active returns a copy of the active piece.
func (c *Controller) Active() *tetris.Piece { return c.field.Active() }

// Next returns a copy of the queued piece.
func (c *Controller) Next() *tetris.Piece { return c.field.Next() }

// DropDistance returns how far the active piece would fall on a hard drop.
func (c *Controller) DropDistance() int { return c.field.DropDistance() }

// Snapshot returns the field snapshot.
func (c *Controller) Snapshot() tetris.Snapshot { return c.field.Snapshot() }

// String renders the field with the active piece overlaid.
func (c *Controller) String() string { return c.field.String() }

// Journal returns a copy of the recorded actions.
func (c *Controller) Journal() []core.Action {
	out := make([]core.Action, len(c.journal))
	copy(out, c.journal)
	return out
}
