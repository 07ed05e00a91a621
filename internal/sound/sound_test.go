package sound

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		got, ok := s.Stream(buf)
		for _, smp := range buf[:got] {
			peak = math.Max(peak, math.Abs(smp[0]))
		}
		n += got
		if !ok {
			return n, peak
		}
	}
}

func TestToneLength(t *testing.T) {
	sr := beep.SampleRate(1000)
	n, peak := drain(Tone(sr, 100, 250*time.Millisecond))
	assert.Equal(t, 250, n)
	assert.LessOrEqual(t, peak, volume)
	assert.Greater(t, peak, 0.0)
}

func TestChirpRunsCallback(t *testing.T) {
	sr := beep.SampleRate(1000)
	called := 0
	n, _ := drain(Chirp(sr, func() { called++ }))
	assert.Equal(t, sr.N(toneDuration)*2+sr.N(toneGap), n)
	assert.Equal(t, 1, called)
}

func TestBellWritesBEL(t *testing.T) {
	var buf bytes.Buffer
	Bell{W: &buf}.PlayStartCue()
	assert.Equal(t, "\a", buf.String())
}

func TestNewSilentWhenDisabled(t *testing.T) {
	assert.IsType(t, Silent{}, New(false))
	assert.IsType(t, &Beeper{}, New(true))
}

func TestBeeperFallsBackToBell(t *testing.T) {
	var buf bytes.Buffer
	inits := 0
	b := &Beeper{
		fallback: Bell{W: &buf},
		init: func(beep.SampleRate, int) error {
			inits++
			return errors.New("no device")
		},
		play: func(...beep.Streamer) { t.Fatal("play must not be called") },
	}
	b.PlayStartCue()
	b.PlayStartCue()
	assert.Equal(t, 1, inits)
	assert.Equal(t, "\a\a", buf.String())
}

func TestBeeperDropsOverlappingCue(t *testing.T) {
	var streams []beep.Streamer
	b := &Beeper{
		fallback: Silent{},
		init:     func(beep.SampleRate, int) error { return nil },
		play:     func(s ...beep.Streamer) { streams = append(streams, s...) },
	}
	b.PlayStartCue()
	b.PlayStartCue()
	require.Len(t, streams, 1)

	drain(streams[0])
	b.PlayStartCue()
	assert.Len(t, streams, 2)
}
