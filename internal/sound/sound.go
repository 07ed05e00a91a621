// Package sound plays the cue that marks the start of timing.
package sound

import (
	"io"
	"log"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	toneDuration = 120 * time.Millisecond
	toneGap      = 60 * time.Millisecond
	lowTone      = 880.0
	highTone     = 1320.0
	volume       = 0.3
)

// Player plays the start cue.
type Player interface {
	PlayStartCue()
}

// New returns a Beeper when enabled, otherwise Silent.
func New(enabled bool) Player {
	if !enabled {
		return Silent{}
	}
	return NewBeeper()
}

// Silent plays nothing.
type Silent struct{}

// PlayStartCue does nothing.
func (Silent) PlayStartCue() {}

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer
}

// PlayStartCue writes BEL to the terminal.
func (b Bell) PlayStartCue() {
	w := b.W
	if w == nil {
		w = os.Stderr
	}
	if _, err := io.WriteString(w, "\a"); err != nil {
		log.Printf("bell: %v", err)
	}
}

// Beeper plays a two-tone chirp through the audio device. If the device
// cannot be opened it falls back to the terminal bell.
type Beeper struct {
	once     sync.Once
	initErr  error
	playing  atomic.Bool
	fallback Player

	init func(beep.SampleRate, int) error
	play func(...beep.Streamer)
}

// NewBeeper returns a Beeper using the default speaker.
func NewBeeper() *Beeper {
	return &Beeper{
		fallback: Bell{},
		init:     speaker.Init,
		play:     speaker.Play,
	}
}

// PlayStartCue starts the chirp and returns immediately. A cue requested
// while the previous one is still sounding is dropped.
func (b *Beeper) PlayStartCue() {
	b.once.Do(func() {
		b.initErr = b.init(sampleRate, sampleRate.N(time.Second/20))
		if b.initErr != nil {
			log.Printf("audio unavailable, using terminal bell: %v", b.initErr)
		}
	})
	if b.initErr != nil {
		b.fallback.PlayStartCue()
		return
	}
	if !b.playing.CompareAndSwap(false, true) {
		return
	}
	b.play(Chirp(sampleRate, func() { b.playing.Store(false) }))
}

// Chirp returns the start cue: a low tone, a short gap and a high tone.
// done runs once the stream is exhausted.
func Chirp(sr beep.SampleRate, done func()) beep.Streamer {
	parts := []beep.Streamer{
		Tone(sr, lowTone, toneDuration),
		beep.Silence(sr.N(toneGap)),
		Tone(sr, highTone, toneDuration),
	}
	if done != nil {
		parts = append(parts, beep.Callback(done))
	}
	return beep.Seq(parts...)
}

// Tone returns a sine wave of freq hertz lasting d.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	pos := 0
	step := 2 * math.Pi * freq / float64(sr)
	return beep.Take(sr.N(d), beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := volume * math.Sin(step*float64(pos))
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	}))
}
