package timer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/verte-zerg/speedster/internal/countdown"
	"github.com/verte-zerg/speedster/internal/model"
	"github.com/verte-zerg/speedster/internal/scramble"
	"github.com/verte-zerg/speedster/internal/stats"
	"github.com/verte-zerg/speedster/internal/stopwatch"
)

// Store persists solves.
type Store interface {
	Create(ctx context.Context, durationMs int64, at time.Time) (model.Solve, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	QueryAll(ctx context.Context) ([]model.Solve, error)
}

// Cue signals the start of timing.
type Cue interface {
	PlayStartCue()
}

// Machine executes the transition table against real timers, the store
// and the cue. It is not safe for concurrent use; call it from the Bubble
// Tea update loop only.
type Machine struct {
	rules     Rules
	phase     Phase
	moves     []scramble.Move
	gen       *scramble.Generator
	seq       *countdown.Sequencer
	sw        *stopwatch.Stopwatch
	store     Store
	cue       Cue
	now       func() time.Time
	window    int
	last      *model.SolveResult
	lastSolve model.Solve
}

type settings struct {
	countdownFrom     int
	countdownInterval time.Duration
	sampleInterval    time.Duration
	window            int
	now               func() time.Time
	gen               *scramble.Generator
}

// Option configures a Machine.
type Option func(*settings)

// WithCountdown sets the countdown start value and step interval.
func WithCountdown(from int, interval time.Duration) Option {
	return func(s *settings) {
		s.countdownFrom = from
		s.countdownInterval = interval
	}
}

// WithSampleInterval sets how often the running time refreshes.
func WithSampleInterval(d time.Duration) Option {
	return func(s *settings) {
		s.sampleInterval = d
	}
}

// WithWindow sets how many recent solves the comparison averages.
func WithWindow(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithClock replaces time.Now for measuring and timestamping.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGenerator sets the scramble generator.
func WithGenerator(g *scramble.Generator) Option {
	return func(s *settings) {
		if g != nil {
			s.gen = g
		}
	}
}

// New returns a Machine in Idle with a fresh scramble.
func New(store Store, cue Cue, opts ...Option) *Machine {
	s := settings{
		countdownFrom:     countdown.DefaultFrom,
		countdownInterval: countdown.DefaultInterval,
		sampleInterval:    stopwatch.DefaultInterval,
		window:            stats.DefaultWindow,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.gen == nil {
		s.gen = scramble.New()
	}
	m := &Machine{
		rules:  Rules{CountdownFrom: s.countdownFrom},
		phase:  Idle{},
		gen:    s.gen,
		seq:    countdown.New(s.countdownInterval),
		sw:     stopwatch.New(stopwatch.WithInterval(s.sampleInterval), stopwatch.WithClock(s.now)),
		store:  store,
		cue:    cue,
		now:    s.now,
		window: s.window,
	}
	m.moves = m.gen.Generate()
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Scramble returns the scramble for the next attempt.
func (m *Machine) Scramble() []scramble.Move {
	return m.moves
}

// LastResult returns the result being shown. It is cleared when the result
// is dismissed.
func (m *Machine) LastResult() (model.SolveResult, bool) {
	if m.last == nil {
		return model.SolveResult{}, false
	}
	return *m.last, true
}

// LastSolve returns the most recently saved solve. It is zero when the last
// attempt could not be saved.
func (m *Machine) LastSolve() model.Solve {
	return m.lastSolve
}

// Window returns the comparison window.
func (m *Machine) Window() int {
	return m.window
}

// Tap feeds one user tap. Stopping a running attempt records it; store
// failures are returned wrapped in ErrStoreRead or ErrStoreWrite while the
// phase still advances to ShowingResult.
func (m *Machine) Tap(ctx context.Context) (tea.Cmd, error) {
	return m.apply(ctx, Tap{})
}

// Update routes countdown and stopwatch ticks. Stale ticks are dropped.
func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case countdown.TickMsg:
		_, next, ok := m.seq.Update(msg)
		if !ok {
			return nil
		}
		cmd, err := m.apply(context.Background(), CountdownTick{})
		if err != nil {
			log.Printf("countdown tick: %v", err)
		}
		return tea.Batch(next, cmd)
	case stopwatch.SampleMsg:
		elapsed, next, ok := m.sw.Update(msg)
		if !ok {
			return nil
		}
		m.phase, _ = m.rules.Transition(m.phase, Sample{ElapsedMs: elapsed})
		return next
	}
	return nil
}

func (m *Machine) apply(ctx context.Context, e Event) (tea.Cmd, error) {
	next, effects := m.rules.Transition(m.phase, e)
	m.phase = next
	var cmds []tea.Cmd
	var errs []error
	for _, eff := range effects {
		switch eff {
		case StartCountdown:
			cmd, err := m.seq.Start(m.rules.from())
			if err != nil {
				errs = append(errs, err)
				continue
			}
			cmds = append(cmds, cmd)
		case CancelCountdown:
			m.seq.Cancel()
		case PlayStartCue:
			if m.cue != nil {
				m.cue.PlayStartCue()
			}
		case StartStopwatch:
			cmds = append(cmds, m.sw.Start())
		case StopStopwatch:
			if err := m.complete(ctx); err != nil {
				errs = append(errs, err)
			}
		case NewScramble:
			m.last = nil
			m.moves = m.gen.Generate()
		}
	}
	return tea.Batch(cmds...), errors.Join(errs...)
}

// complete stops timing, records the solve and moves to ShowingResult.
func (m *Machine) complete(ctx context.Context) error {
	elapsed := m.sw.Stop()
	var errs []error

	result := model.SolveResult{TimeMs: elapsed}
	prior, err := m.store.QueryAll(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrStoreRead, err))
	} else {
		result.ComparedToAverageMs = stats.Comparison(elapsed, prior, m.window)
	}

	m.lastSolve = model.Solve{}
	solve, err := m.store.Create(ctx, elapsed, m.now())
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrStoreWrite, err))
	} else {
		m.lastSolve = solve
	}

	m.last = &result
	m.phase, _ = m.rules.Transition(m.phase, Stopped{Result: result})
	return errors.Join(errs...)
}
