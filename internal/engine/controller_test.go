package engine

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// fixedKind always deals the same shape.
type fixedKind tetris.Kind

func (k fixedKind) Next() tetris.Kind { return tetris.Kind(k) }

// recorder captures observer calls in order.
type recorder struct {
	calls      []string
	lineClears [][]int
	gameOvers  int
}

func (r *recorder) OnLock(p *tetris.Piece) {
	r.calls = append(r.calls, "lock:"+p.Kind().String())
}

func (r *recorder) OnLineClear(count int, rows []int) {
	r.calls = append(r.calls, "clear")
	r.lineClears = append(r.lineClears, rows)
}

func (r *recorder) OnGameOver() {
	r.calls = append(r.calls, "over")
	r.gameOvers++
}

func newController(t *testing.T, opts Options) *Controller {
	t.Helper()
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewAppliesDefaults(t *testing.T) {
	c := newController(t, Options{Seed: 1})

	if c.Width() != tetris.DefaultWidth || c.Height() != tetris.DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", c.Width(), c.Height(), tetris.DefaultWidth, tetris.DefaultHeight)
	}
	if c.Options().Randomizer != tetris.RandomizerUniform {
		t.Errorf("randomizer = %q, want uniform", c.Options().Randomizer)
	}
	if c.Active() == nil || c.Next() == nil {
		t.Error("new controller should have active and next pieces")
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{Randomizer: "dice"}); err == nil {
		t.Error("expected error for unknown randomizer")
	}
	if _, err := New(Options{Width: 2, Height: 20}); err == nil {
		t.Error("expected error for narrow field")
	}
}

// dropVerticalI rotates the spawned I upright, slides it to column col and
// hard-drops it.
func dropVerticalI(c *Controller, col int) Result {
	c.Apply(core.ActionRotateRight)
	// Upright I sits in matrix column 2; spawn anchor x=3 puts it in column 5.
	shift := col - 5
	for ; shift < 0; shift++ {
		c.Apply(core.ActionLeft)
	}
	for ; shift > 0; shift-- {
		c.Apply(core.ActionRight)
	}
	return c.Apply(core.ActionHardDrop)
}

func TestFourLineClearNotifiesOnce(t *testing.T) {
	c := newController(t, Options{Source: fixedKind(tetris.KindI)})
	rec := &recorder{}
	c.Subscribe(rec)

	var last Result
	for col := 0; col < c.Width(); col++ {
		last = dropVerticalI(c, col)
		if last.Outcome != tetris.OutcomeLocked {
			t.Fatalf("column %d: outcome = %v", col, last.Outcome)
		}
		if col < c.Width()-1 && len(last.Rows) != 0 {
			t.Fatalf("column %d cleared rows early: %v", col, last.Rows)
		}
	}

	if diff := cmp.Diff([]int{19, 18, 17, 16}, last.Rows); diff != "" {
		t.Errorf("cleared rows mismatch (-want +got):\n%s", diff)
	}
	if len(rec.lineClears) != 1 {
		t.Fatalf("OnLineClear called %d times, want 1", len(rec.lineClears))
	}
	if diff := cmp.Diff([]int{19, 18, 17, 16}, rec.lineClears[0]); diff != "" {
		t.Errorf("notified rows mismatch (-want +got):\n%s", diff)
	}
	if c.ClearedLines() != 4 {
		t.Errorf("ClearedLines() = %d, want 4", c.ClearedLines())
	}

	wantEvents := []Event{
		LockEvent{Kind: tetris.KindI, Cells: []tetris.Point{{X: 9, Y: 16}, {X: 9, Y: 17}, {X: 9, Y: 18}, {X: 9, Y: 19}}},
		LineClearEvent{Count: 4, Rows: []int{19, 18, 17, 16}},
	}
	if diff := cmp.Diff(wantEvents, last.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	for _, row := range c.Snapshot().Rows {
		if row != ".........." {
			t.Fatalf("grid should be empty after the clear:\n%v", c.Snapshot().Rows)
		}
	}
}

func TestGameOverNotifiesOnceAndFreezes(t *testing.T) {
	c := newController(t, Options{Source: fixedKind(tetris.KindO)})
	rec := &recorder{}
	c.Subscribe(rec)

	var overResult Result
	for i := 0; i < 20; i++ {
		res := c.Apply(core.ActionHardDrop)
		if res.Outcome == tetris.OutcomeGameOver {
			overResult = res
		}
	}

	if rec.gameOvers != 1 {
		t.Fatalf("OnGameOver called %d times, want 1", rec.gameOvers)
	}
	if rec.calls[len(rec.calls)-2] != "lock:O" || rec.calls[len(rec.calls)-1] != "over" {
		t.Errorf("lock must precede game over, calls = %v", rec.calls)
	}
	if _, ok := overResult.Events[len(overResult.Events)-1].(GameOverEvent); !ok {
		t.Errorf("last event = %T, want GameOverEvent", overResult.Events[len(overResult.Events)-1])
	}

	journalLen := len(c.Journal())
	frozen := c.Snapshot()
	for _, a := range []core.Action{
		core.ActionLeft, core.ActionRight, core.ActionRotateLeft, core.ActionRotateRight,
		core.ActionSoftDrop, core.ActionTick, core.ActionHardDrop, core.ActionPause,
	} {
		if res := c.Apply(a); res.Outcome != tetris.OutcomeIgnored || len(res.Events) != 0 {
			t.Errorf("%v after game over = %v with %d events", a, res.Outcome, len(res.Events))
		}
	}
	if diff := cmp.Diff(frozen, c.Snapshot()); diff != "" {
		t.Errorf("state changed after game over (-want +got):\n%s", diff)
	}
	if len(c.Journal()) != journalLen {
		t.Error("ignored actions should not be journaled")
	}
	if !c.State().GameOver {
		t.Error("State().GameOver = false")
	}
}

func TestResetAfterGameOver(t *testing.T) {
	c := newController(t, Options{Source: fixedKind(tetris.KindO)})
	for !c.IsOver() {
		c.Apply(core.ActionHardDrop)
	}

	res := c.Apply(core.ActionReset)
	if diff := cmp.Diff([]Event{ResetEvent{}}, res.Events); diff != "" {
		t.Errorf("reset events mismatch (-want +got):\n%s", diff)
	}
	if c.IsOver() || c.ClearedLines() != 0 {
		t.Errorf("state after reset = %+v", c.State())
	}
	if a := c.Active(); a.X() != 4 || a.Y() != 0 {
		t.Errorf("active after reset at (%d, %d), want (4, 0)", a.X(), a.Y())
	}
	if res := c.Apply(core.ActionTick); res.Outcome != tetris.OutcomeMoved {
		t.Errorf("Tick after reset = %v, want moved", res.Outcome)
	}
}

func TestPauseSuppressesCommands(t *testing.T) {
	c := newController(t, Options{Seed: 5})
	start := c.Active()

	res := c.Apply(core.ActionPause)
	if diff := cmp.Diff([]Event{PauseEvent{Paused: true}}, res.Events); diff != "" {
		t.Errorf("pause events mismatch (-want +got):\n%s", diff)
	}
	for _, a := range []core.Action{core.ActionTick, core.ActionLeft, core.ActionHardDrop} {
		if res := c.Apply(a); res.Outcome != tetris.OutcomeIgnored {
			t.Errorf("%v while paused = %v, want ignored", a, res.Outcome)
		}
	}
	if a := c.Active(); a.X() != start.X() || a.Y() != start.Y() {
		t.Error("piece moved while paused")
	}

	c.Apply(core.ActionPause)
	if c.Paused() {
		t.Fatal("second pause should resume")
	}
	if res := c.Apply(core.ActionTick); res.Outcome != tetris.OutcomeMoved {
		t.Errorf("Tick after resume = %v, want moved", res.Outcome)
	}
}

func TestDriverOnlyActionsAreIgnored(t *testing.T) {
	c := newController(t, Options{Seed: 5})
	for _, a := range []core.Action{core.ActionNone, core.ActionQuit, core.ActionToggleSound} {
		if res := c.Apply(a); res.Outcome != tetris.OutcomeIgnored {
			t.Errorf("%v = %v, want ignored", a, res.Outcome)
		}
	}
	if len(c.Journal()) != 0 {
		t.Errorf("journal = %v, want empty", c.Journal())
	}
}

func TestJournalHoldsOnlyCodedActions(t *testing.T) {
	c := newController(t, Options{Seed: 9})
	for _, a := range []core.Action{
		core.ActionLeft, core.ActionToggleSound, core.ActionRotateRight, core.ActionQuit,
		core.ActionPause, core.ActionPause, core.ActionTick, core.ActionHardDrop,
	} {
		c.Apply(a)
	}

	for i, a := range c.Journal() {
		if !a.Journaled() {
			t.Errorf("journal[%d] = %v has no replay code", i, a)
		}
	}
	decoded, err := core.DecodeActions(core.EncodeActions(c.Journal()))
	if err != nil {
		t.Fatalf("DecodeActions() error = %v", err)
	}
	if diff := cmp.Diff(c.Journal(), decoded); diff != "" {
		t.Errorf("journal lost actions in encoding (-want +got):\n%s", diff)
	}
}

func TestBlockedMoveIsNotJournaled(t *testing.T) {
	c := newController(t, Options{Source: fixedKind(tetris.KindO)})
	for c.Apply(core.ActionLeft).Outcome == tetris.OutcomeMoved {
	}
	journal := c.Journal()

	if res := c.Apply(core.ActionLeft); res.Outcome != tetris.OutcomeBlocked {
		t.Fatalf("outcome at wall = %v, want blocked", res.Outcome)
	}
	if diff := cmp.Diff(journal, c.Journal()); diff != "" {
		t.Errorf("blocked move changed journal (-want +got):\n%s", diff)
	}
}

func TestStepAppliesFrameInOrder(t *testing.T) {
	c := newController(t, Options{Source: fixedKind(tetris.KindT)})

	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	in.Set(core.ActionLeft)
	in.Set(core.ActionHardDrop)

	res := c.Step(in)
	if len(res.Events) != 1 {
		t.Fatalf("events = %v, want one lock", res.Events)
	}
	lock, ok := res.Events[0].(LockEvent)
	if !ok {
		t.Fatalf("event = %T, want LockEvent", res.Events[0])
	}
	want := []tetris.Point{{X: 3, Y: 18}, {X: 2, Y: 19}, {X: 3, Y: 19}, {X: 4, Y: 19}}
	if diff := cmp.Diff(want, lock.Cells); diff != "" {
		t.Errorf("locked cells mismatch (-want +got):\n%s", diff)
	}
	if res.State.GameOver || res.State.Paused {
		t.Errorf("state = %+v", res.State)
	}
}

func TestNopObserverEmbedding(t *testing.T) {
	type overOnly struct {
		NopObserver
		n *int
	}
	n := 0
	var o Observer = overOnly{n: &n}
	o.OnLock(tetris.NewPiece(tetris.KindT, 0, 0))
	o.OnLineClear(1, []int{19})
	if n != 0 {
		t.Error("NopObserver methods should do nothing")
	}
}

func TestReplayReproducesGame(t *testing.T) {
	opts := Options{Seed: 2024, Randomizer: tetris.RandomizerBag}
	c := newController(t, opts)

	rng := rand.New(rand.NewSource(7))
	actions := []core.Action{
		core.ActionLeft, core.ActionRight, core.ActionRotateLeft, core.ActionRotateRight,
		core.ActionSoftDrop, core.ActionTick, core.ActionTick, core.ActionHardDrop,
		core.ActionPause, core.ActionToggleSound,
	}
	for i := 0; i < 2000; i++ {
		c.Apply(actions[rng.Intn(len(actions))])
		if c.IsOver() {
			c.Apply(core.ActionReset)
		}
	}

	replayed, err := Replay(c.Options(), c.Journal())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if diff := cmp.Diff(c.Snapshot(), replayed.Snapshot()); diff != "" {
		t.Errorf("replay diverged (-live +replay):\n%s", diff)
	}
	if replayed.Paused() != c.Paused() {
		t.Error("replay pause state diverged")
	}

	fromText, err := ReplayEncoded(c.Options(), core.EncodeActions(c.Journal()))
	if err != nil {
		t.Fatalf("ReplayEncoded: %v", err)
	}
	if diff := cmp.Diff(c.Snapshot(), fromText.Snapshot()); diff != "" {
		t.Errorf("encoded replay diverged (-live +replay):\n%s", diff)
	}
}

func TestReplayEncodedRejectsGarbage(t *testing.T) {
	if _, err := ReplayEncoded(Options{}, "TT!"); err == nil {
		t.Error("expected decode error")
	}
}
