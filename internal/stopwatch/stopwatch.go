// Package stopwatch measures solve durations against the wall clock.
package stopwatch

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the display refresh cadence while running.
const DefaultInterval = 10 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// SampleMsg asks a running stopwatch to refresh its elapsed value.
type SampleMsg struct {
	ID  int
	tag int
}

// Stopwatch tracks one timed attempt. Samples are cosmetic; the duration
// returned by Stop is always stop time minus start time.
type Stopwatch struct {
	id       int
	tag      int
	interval time.Duration
	now      func() time.Time

	running   bool
	startedAt time.Time
	elapsedMs int64
}

// Option configures a Stopwatch.
type Option func(*Stopwatch)

// WithInterval sets the sample cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Stopwatch) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Stopwatch) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an idle stopwatch.
func New(opts ...Option) *Stopwatch {
	s := &Stopwatch{
		id:       nextID(),
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resets elapsed time to zero and begins sampling. Any sample still
// in flight from an earlier run is invalidated.
func (s *Stopwatch) Start() tea.Cmd {
	s.tag++
	s.running = true
	s.startedAt = s.now()
	s.elapsedMs = 0
	return s.tick()
}

// Sample returns elapsed whole milliseconds while running, or the last
// measured duration once stopped.
func (s *Stopwatch) Sample() int64 {
	if !s.running {
		return s.elapsedMs
	}
	s.elapsedMs = s.measure()
	return s.elapsedMs
}

// Stop halts sampling and returns the final duration.
func (s *Stopwatch) Stop() int64 {
	if !s.running {
		return s.elapsedMs
	}
	s.elapsedMs = s.measure()
	s.running = false
	s.tag++
	return s.elapsedMs
}

// Update consumes a sample tick. ok is false for messages that belong to
// another stopwatch or to a run that has already ended.
func (s *Stopwatch) Update(msg SampleMsg) (elapsedMs int64, cmd tea.Cmd, ok bool) {
	if msg.ID != s.id || msg.tag != s.tag || !s.running {
		return s.elapsedMs, nil, false
	}
	return s.Sample(), s.tick(), true
}

func (s *Stopwatch) measure() int64 {
	d := s.now().Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}

func (s *Stopwatch) tick() tea.Cmd {
	id, tag := s.id, s.tag
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return SampleMsg{ID: id, tag: tag}
	})
}
