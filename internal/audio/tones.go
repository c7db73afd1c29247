// Package audio plays short synthesized tones for game events using beep.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is the output rate for every tone.
const SampleRate = beep.SampleRate(44100)

// Sound names a game event with its own tone.
type Sound int

const (
	SoundMove Sound = iota
	SoundRotate
	SoundDrop
	SoundLineClear1
	SoundLineClear2
	SoundLineClear3
	SoundLineClear4
	SoundGameOver
)

// Note is a pitch held for a duration.
type Note struct {
	Freq     float64
	Duration time.Duration
}

var notes = map[Sound]Note{
	SoundMove:       {220, 100 * time.Millisecond},
	SoundRotate:     {330, 150 * time.Millisecond},
	SoundDrop:       {165, 200 * time.Millisecond},
	SoundLineClear1: {440, 300 * time.Millisecond},
	SoundLineClear2: {523.25, 400 * time.Millisecond},
	SoundLineClear3: {659.25, 500 * time.Millisecond},
	SoundLineClear4: {880, 600 * time.Millisecond},
	SoundGameOver:   {196, 800 * time.Millisecond},
}

// NoteFor returns the tone for a sound.
func NoteFor(s Sound) (Note, bool) {
	n, ok := notes[s]
	return n, ok
}

// LineClearSound maps a cleared row count to its sound. Counts above four
// use the four-line tone.
func LineClearSound(count int) Sound {
	switch {
	case count <= 1:
		return SoundLineClear1
	case count == 2:
		return SoundLineClear2
	case count == 3:
		return SoundLineClear3
	default:
		return SoundLineClear4
	}
}

// Tone builds a sine tone of the given length that fades out linearly.
// Volume is a linear gain in [0, 1].
func Tone(n Note, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, n.Freq)
	if err != nil {
		return nil, fmt.Errorf("audio: tone %.2fHz: %w", n.Freq, err)
	}
	total := SampleRate.N(n.Duration)
	faded := &fadeOut{streamer: beep.Take(total, sine), total: total}
	return gain(faded, volume), nil
}

// gain wraps s in a volume effect. Zero volume is silent since the
// effect works on a log scale.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// fadeOut scales samples from full level down to zero across total samples.
type fadeOut struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func (f *fadeOut) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		level := 1 - float64(f.pos)/float64(f.total)
		if level < 0 {
			level = 0
		}
		samples[i][0] *= level
		samples[i][1] *= level
		f.pos++
	}
	return n, ok
}

func (f *fadeOut) Err() error { return f.streamer.Err() }
