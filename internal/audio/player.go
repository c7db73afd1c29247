package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Player turns engine notifications into tones. Audio failures are logged
// and otherwise ignored; the game never depends on sound.
type Player struct {
	mu      sync.Mutex
	enabled bool
	volume  float64
	ready   bool
	mixer   *beep.Mixer
	logger  *log.Logger
}

var _ engine.Observer = (*Player)(nil)

// NewPlayer creates a player. Call Init before sounds can be heard.
func NewPlayer(enabled bool, volume float64, logger *log.Logger) *Player {
	return &Player{
		enabled: enabled,
		volume:  core.ClampF(volume, 0, 1),
		mixer:   &beep.Mixer{},
		logger:  logger,
	}
}

// Init opens the audio device. On failure the player stays silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		p.logger.Warn("audio unavailable, continuing without sound", "error", err)
		return err
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Close stops all sounds.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.ready = false
}

// Enabled reports whether sounds are played.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Toggle flips sound on or off and returns the new state.
func (p *Player) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = !p.enabled
	return p.enabled
}

// Play queues the tone for a sound.
func (p *Player) Play(s Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || !p.ready {
		return
	}
	n, ok := NoteFor(s)
	if !ok {
		return
	}
	tone, err := Tone(n, p.volume)
	if err != nil {
		p.logger.Debug("cannot build tone", "sound", s, "error", err)
		return
	}
	speaker.Lock()
	p.mixer.Add(tone)
	speaker.Unlock()
}

// Pending returns the number of tones still playing.
func (p *Player) Pending() int {
	speaker.Lock()
	defer speaker.Unlock()
	return p.mixer.Len()
}

// OnLock plays the landing tone.
func (p *Player) OnLock(*tetris.Piece) { p.Play(SoundDrop) }

// OnLineClear plays a tone that rises with the number of rows.
func (p *Player) OnLineClear(count int, _ []int) { p.Play(LineClearSound(count)) }

// OnGameOver plays the closing tone.
func (p *Player) OnGameOver() { p.Play(SoundGameOver) }

// OnResult plays movement feedback for a successfully applied action.
func (p *Player) OnResult(res engine.Result) {
	if res.Outcome != tetris.OutcomeMoved {
		return
	}
	switch res.Action {
	case core.ActionLeft, core.ActionRight:
		p.Play(SoundMove)
	case core.ActionRotateLeft, core.ActionRotateRight:
		p.Play(SoundRotate)
	}
}
