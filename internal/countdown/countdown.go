// Package countdown runs the pre-solve inspection countdown.
package countdown

import (
	"errors"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultFrom is the number of steps before timing starts.
	DefaultFrom = 5
	// DefaultInterval is the delay between steps.
	DefaultInterval = time.Second
)

// ErrActive is returned by Start while a countdown is already running.
var ErrActive = errors.New("countdown: already active")

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg advances an active countdown by one step.
type TickMsg struct {
	ID  int
	tag int
}

// Step reports the state after an accepted tick.
type Step struct {
	Remaining int
	Done      bool
}

// Sequencer counts down from a start value, one step per interval.
type Sequencer struct {
	id        int
	tag       int
	interval  time.Duration
	active    bool
	remaining int
}

// New returns an idle sequencer. Non-positive intervals use DefaultInterval.
func New(interval time.Duration) *Sequencer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sequencer{id: nextID(), interval: interval}
}

// Start begins counting down from `from` and returns the first tick.
func (s *Sequencer) Start(from int) (tea.Cmd, error) {
	if s.active {
		return nil, ErrActive
	}
	if from <= 0 {
		from = DefaultFrom
	}
	s.tag++
	s.active = true
	s.remaining = from
	return s.tick(), nil
}

// Cancel stops the countdown. Any tick already scheduled is discarded when
// it arrives. Cancelling an idle sequencer does nothing.
func (s *Sequencer) Cancel() {
	if !s.active {
		return
	}
	s.active = false
	s.remaining = 0
	s.tag++
}

// Update consumes a tick. ok is false for ticks addressed to another
// sequencer or left over from a cancelled run.
func (s *Sequencer) Update(msg TickMsg) (step Step, cmd tea.Cmd, ok bool) {
	if msg.ID != s.id || msg.tag != s.tag || !s.active {
		return Step{}, nil, false
	}
	s.remaining--
	if s.remaining <= 0 {
		s.active = false
		s.remaining = 0
		s.tag++
		return Step{Done: true}, nil, true
	}
	return Step{Remaining: s.remaining}, s.tick(), true
}

func (s *Sequencer) tick() tea.Cmd {
	id, tag := s.id, s.tag
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}
