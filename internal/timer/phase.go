// Package timer drives one practice attempt from scramble to recorded result.
package timer

import (
	"fmt"

	"github.com/verte-zerg/speedster/internal/countdown"
	"github.com/verte-zerg/speedster/internal/model"
)

// Phase is the state of the timing state machine.
type Phase interface {
	phase()
}

// Idle shows the scramble and waits for a tap.
type Idle struct{}

// Countdown counts down before timing starts.
type Countdown struct {
	Remaining int
}

// Running measures the attempt.
type Running struct {
	ElapsedMs int64
}

// ShowingResult displays the last recorded attempt.
type ShowingResult struct {
	Result model.SolveResult
}

func (Idle) phase()          {}
func (Countdown) phase()     {}
func (Running) phase()       {}
func (ShowingResult) phase() {}

// Event is an input to the state machine.
type Event interface {
	event()
}

// Tap is the single user input.
type Tap struct{}

// CountdownTick advances the countdown by one step.
type CountdownTick struct{}

// Sample refreshes the displayed elapsed time.
type Sample struct {
	ElapsedMs int64
}

// Stopped delivers the recorded result of a finished attempt.
type Stopped struct {
	Result model.SolveResult
}

func (Tap) event()           {}
func (CountdownTick) event() {}
func (Sample) event()        {}
func (Stopped) event()       {}

// Effect is a side effect requested by a transition.
type Effect int

const (
	StartCountdown Effect = iota + 1
	CancelCountdown
	PlayStartCue
	StartStopwatch
	StopStopwatch
	NewScramble
)

func (e Effect) String() string {
	switch e {
	case StartCountdown:
		return "StartCountdown"
	case CancelCountdown:
		return "CancelCountdown"
	case PlayStartCue:
		return "PlayStartCue"
	case StartStopwatch:
		return "StartStopwatch"
	case StopStopwatch:
		return "StopStopwatch"
	case NewScramble:
		return "NewScramble"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

// Rules parameterizes the transition table.
type Rules struct {
	// CountdownFrom is the first countdown value; non-positive means
	// countdown.DefaultFrom.
	CountdownFrom int
}

// Transition applies the default rules.
func Transition(p Phase, e Event) (Phase, []Effect) {
	return Rules{}.Transition(p, e)
}

// Transition returns the next phase and the effects the caller must run.
// Pairs without a rule leave the phase unchanged and request nothing.
func (r Rules) Transition(p Phase, e Event) (Phase, []Effect) {
	switch cur := p.(type) {
	case Idle:
		if _, ok := e.(Tap); ok {
			return Countdown{Remaining: r.from()}, []Effect{StartCountdown}
		}
	case Countdown:
		switch e.(type) {
		case Tap:
			return Idle{}, []Effect{CancelCountdown}
		case CountdownTick:
			if cur.Remaining > 1 {
				return Countdown{Remaining: cur.Remaining - 1}, nil
			}
			return Running{}, []Effect{PlayStartCue, StartStopwatch}
		}
	case Running:
		switch ev := e.(type) {
		case Tap:
			return cur, []Effect{StopStopwatch}
		case Sample:
			return Running{ElapsedMs: ev.ElapsedMs}, nil
		case Stopped:
			return ShowingResult{Result: ev.Result}, nil
		}
	case ShowingResult:
		if _, ok := e.(Tap); ok {
			return Idle{}, []Effect{NewScramble}
		}
	}
	return p, nil
}

func (r Rules) from() int {
	if r.CountdownFrom <= 0 {
		return countdown.DefaultFrom
	}
	return r.CountdownFrom
}
