package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/verte-zerg/speedster/internal/model"
)

func TestTransitionTable(t *testing.T) {
	diff := int64(-300)
	result := model.SolveResult{TimeMs: 9000, ComparedToAverageMs: &diff}

	tests := []struct {
		name    string
		from    Phase
		event   Event
		to      Phase
		effects []Effect
	}{
		{"idle tap starts countdown", Idle{}, Tap{}, Countdown{Remaining: 5}, []Effect{StartCountdown}},
		{"countdown tap cancels", Countdown{Remaining: 3}, Tap{}, Idle{}, []Effect{CancelCountdown}},
		{"countdown tick steps down", Countdown{Remaining: 3}, CountdownTick{}, Countdown{Remaining: 2}, nil},
		{"last tick starts timing", Countdown{Remaining: 1}, CountdownTick{}, Running{}, []Effect{PlayStartCue, StartStopwatch}},
		{"sample updates elapsed", Running{ElapsedMs: 10}, Sample{ElapsedMs: 250}, Running{ElapsedMs: 250}, nil},
		{"running tap stops", Running{ElapsedMs: 250}, Tap{}, Running{ElapsedMs: 250}, []Effect{StopStopwatch}},
		{"stopped shows result", Running{ElapsedMs: 250}, Stopped{Result: result}, ShowingResult{Result: result}, nil},
		{"result tap resets", ShowingResult{Result: result}, Tap{}, Idle{}, []Effect{NewScramble}},
		{"idle ignores tick", Idle{}, CountdownTick{}, Idle{}, nil},
		{"idle ignores sample", Idle{}, Sample{ElapsedMs: 5}, Idle{}, nil},
		{"countdown ignores sample", Countdown{Remaining: 2}, Sample{ElapsedMs: 5}, Countdown{Remaining: 2}, nil},
		{"running ignores tick", Running{ElapsedMs: 7}, CountdownTick{}, Running{ElapsedMs: 7}, nil},
		{"result ignores stopped", ShowingResult{Result: result}, Stopped{}, ShowingResult{Result: result}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, effects := Transition(tc.from, tc.event)
			assert.Equal(t, tc.to, got)
			assert.Equal(t, tc.effects, effects)
		})
	}
}

func TestRulesCountdownFrom(t *testing.T) {
	got, _ := Rules{CountdownFrom: 3}.Transition(Idle{}, Tap{})
	assert.Equal(t, Countdown{Remaining: 3}, got)

	got, _ = Rules{CountdownFrom: -1}.Transition(Idle{}, Tap{})
	assert.Equal(t, Countdown{Remaining: 5}, got)
}

func TestEffectString(t *testing.T) {
	assert.Equal(t, "StopStopwatch", StopStopwatch.String())
	assert.Equal(t, "Effect(42)", Effect(42).String())
}
