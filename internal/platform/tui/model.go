package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/logging"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// SoundSink plays effects for engine results. Implemented by audio.Player.
type SoundSink interface {
	engine.Observer
	OnResult(engine.Result)
	Toggle() bool
	Enabled() bool
}

// Options configures a game Model.
type Options struct {
	Game      config.Config
	Runtime   core.RuntimeConfig
	Store     *storage.Store // nil disables replay saving
	Player    SoundSink      // nil disables sound
	Logger    *log.Logger    // nil discards
	Session   string         // Recorded with saved replays
	FixedSeed bool           // Reuse Runtime.Seed for every new game
}

// flash tracks the highlight shown where rows were just cleared.
type flash struct {
	rows      []int
	remaining int // Toggles left
	on        bool
	next      time.Time
}

// Model is the Bubble Tea model for a single blockfall game. It owns the
// controller and is the only place that calls it, so the update loop
// serialises every action.
type Model struct {
	opts      Options
	ctrl      *engine.Controller
	screen    *core.Screen
	keys      KeyMap
	help      help.Model
	logger    *log.Logger
	frame     core.InputFrame
	lastKey   map[core.Action]time.Time
	now       func() time.Time
	lastTick  time.Time
	gravity   time.Duration
	flash     flash
	saved     bool
	lastSaved uuid.UUID
	status    string
	quitting  bool
}

// NewModel creates a model and starts its first game.
func NewModel(opts Options) (Model, error) {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	m := Model{
		opts:    opts,
		screen:  core.NewScreen(opts.Runtime.ScreenW, core.Max(opts.Runtime.ScreenH-1, 1)),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		logger:  opts.Logger,
		frame:   core.NewInputFrame(),
		lastKey: make(map[core.Action]time.Time),
		now:     time.Now,
	}
	m.help.Width = opts.Runtime.ScreenW

	ctrl, err := m.newController(opts.Runtime.Seed)
	if err != nil {
		return Model{}, err
	}
	m.ctrl = ctrl
	return m, nil
}

func (m *Model) newController(seed int64) (*engine.Controller, error) {
	ctrl, err := engine.New(engine.Options{
		Width:      m.opts.Game.Field.Width,
		Height:     m.opts.Game.Field.Height,
		Seed:       seed,
		Randomizer: m.opts.Game.Randomizer,
	})
	if err != nil {
		return nil, err
	}
	if m.opts.Player != nil {
		ctrl.Subscribe(m.opts.Player)
	}
	m.logger.Debug("new game", "seed", seed, "randomizer", ctrl.Options().Randomizer)
	return ctrl, nil
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey queues the action for a key. Driver-only actions take effect
// immediately.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.keys.Action(msg)
	switch a {
	case core.ActionNone:
		return m, nil

	case core.ActionQuit:
		m.saveReplay()
		m.quitting = true
		return m, tea.Quit

	case core.ActionToggleSound:
		if m.opts.Player != nil {
			on := m.opts.Player.Toggle()
			m.logger.Debug("sound toggled", "enabled", on)
		}
		return m, nil

	case core.ActionReset:
		m.saveReplay()
		m.newGame()
		return m, nil
	}

	if repeats(a) {
		now := m.now()
		if last, ok := m.lastKey[a]; ok && now.Sub(last) < m.opts.Game.RepeatDelay() {
			return m, nil
		}
		m.lastKey[a] = now
	}
	m.frame.Set(a)
	return m, nil
}

// handleTick applies queued input, then as many gravity ticks as the
// elapsed time allows.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	var elapsed time.Duration
	if !m.lastTick.IsZero() {
		elapsed = t.Sub(m.lastTick)
	}
	m.lastTick = t

	for _, a := range m.frame.Actions {
		m.apply(a)
	}
	m.frame.Clear()

	if m.ctrl.Paused() || m.ctrl.IsOver() {
		m.gravity = 0
	} else {
		interval := m.opts.Game.GravityInterval()
		m.gravity += elapsed
		// A stalled frame catches up by at most two rows.
		if limit := 2 * interval; interval > 0 && m.gravity > limit {
			m.gravity = limit
		}
		for interval > 0 && m.gravity >= interval && !m.ctrl.IsOver() {
			m.gravity -= interval
			m.apply(core.ActionTick)
		}
	}

	m.advanceFlash(t)
	return m, tickCmd(m.opts.Runtime.TickRate)
}

// apply runs one action through the controller and reacts to its events.
func (m *Model) apply(a core.Action) {
	res := m.ctrl.Apply(a)
	if m.opts.Player != nil {
		m.opts.Player.OnResult(res)
	}
	for _, ev := range res.Events {
		m.handleEvent(ev)
	}
}

func (m *Model) handleEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.LockEvent:
		m.logger.Debug("lock", "kind", e.Kind, "cells", e.Cells)
	case engine.LineClearEvent:
		m.logger.Debug("line clear", "count", e.Count, "rows", e.Rows)
		m.startFlash(e.Rows)
	case engine.GameOverEvent:
		m.logger.Info("game over", "lines", e.ClearedLines, "seed", m.ctrl.Seed())
		m.saveReplay()
	case engine.PauseEvent:
		m.logger.Debug("pause", "paused", e.Paused)
	case engine.ResetEvent:
		m.logger.Debug("reset")
	}
}

func (m *Model) startFlash(rows []int) {
	if m.opts.Game.Effects.LineClearTicks <= 0 {
		return
	}
	m.flash = flash{
		rows:      append([]int(nil), rows...),
		remaining: m.opts.Game.Effects.LineClearTicks,
		on:        true,
	}
}

// advanceFlash toggles the highlight every flash interval until it runs out.
func (m *Model) advanceFlash(t time.Time) {
	f := &m.flash
	if f.remaining == 0 {
		return
	}
	if f.next.IsZero() {
		f.next = t.Add(m.opts.Game.FlashInterval())
		return
	}
	if t.Before(f.next) {
		return
	}
	f.remaining--
	f.on = !f.on
	f.next = t.Add(m.opts.Game.FlashInterval())
	if f.remaining == 0 {
		*f = flash{}
	}
}

// newGame replaces the controller. A fresh seed is drawn unless the seed
// was fixed on the command line.
func (m *Model) newGame() {
	seed := m.opts.Runtime.Seed
	if !m.opts.FixedSeed {
		seed = time.Now().UnixNano()
	}
	ctrl, err := m.newController(seed)
	if err != nil {
		m.logger.Error("cannot start new game", "error", err)
		return
	}
	m.opts.Runtime.Seed = seed
	m.ctrl = ctrl
	m.saved = false
	m.gravity = 0
	m.flash = flash{}
	m.frame.Clear()
	m.status = ""
}

// saveReplay stores the current game's journal once. Empty games are not
// saved.
func (m *Model) saveReplay() {
	if m.saved || m.opts.Store == nil {
		return
	}
	journal := m.ctrl.Journal()
	if len(journal) == 0 {
		return
	}
	m.saved = true

	opts := m.ctrl.Options()
	id, err := m.opts.Store.SaveReplay(storage.ReplayRecord{
		Seed:       opts.Seed,
		Width:      opts.Width,
		Height:     opts.Height,
		Randomizer: opts.Randomizer,
		Actions:    core.EncodeActions(journal),
		Lines:      m.ctrl.ClearedLines(),
		GameOver:   m.ctrl.IsOver(),
		Session:    m.opts.Session,
	})
	if err != nil {
		m.logger.Error("cannot save replay", "error", err)
		return
	}
	m.lastSaved = id
	m.status = "saved replay " + id.String()[:8]
	m.logger.Info("replay saved", "id", id, "lines", m.ctrl.ClearedLines(), "actions", len(journal))
}

// Controller returns the controller of the current game.
func (m Model) Controller() *engine.Controller { return m.ctrl }

// LastReplay returns the ID of the most recently saved replay, or uuid.Nil.
func (m Model) LastReplay() uuid.UUID { return m.lastSaved }

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool { return m.quitting }

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	v := viewOf(m.ctrl)
	if m.flash.on {
		v.flashRows = m.flash.rows
	}
	if m.opts.Player != nil {
		v.sound = "off"
		if m.opts.Player.Enabled() {
			v.sound = "on"
		}
	}

	m.screen.Clear()
	drawGame(m.screen, v)

	footer := helpStyle.Render(m.help.View(m.keys))
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "  " + footer
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// Run starts a local game in the alternate screen and blocks until the
// player quits.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
