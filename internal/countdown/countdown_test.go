package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func current(s *Sequencer) TickMsg {
	return TickMsg{ID: s.id, tag: s.tag}
}

func TestCountsDownToDone(t *testing.T) {
	seq := New(time.Millisecond)
	cmd, err := seq.Start(DefaultFrom)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, 5, seq.remaining)

	var seen []int
	for i := 0; i < 4; i++ {
		step, next, ok := seq.Update(current(seq))
		require.True(t, ok)
		require.False(t, step.Done)
		require.NotNil(t, next)
		seen = append(seen, step.Remaining)
	}
	assert.Equal(t, []int{4, 3, 2, 1}, seen)

	step, next, ok := seq.Update(current(seq))
	require.True(t, ok)
	assert.True(t, step.Done)
	assert.Nil(t, next)
	assert.False(t, seq.active)
}

func TestStartWhileActiveFails(t *testing.T) {
	seq := New(time.Millisecond)
	_, err := seq.Start(3)
	require.NoError(t, err)

	_, err = seq.Start(3)
	assert.ErrorIs(t, err, ErrActive)
}

func TestCancelIsIdempotent(t *testing.T) {
	seq := New(time.Millisecond)
	seq.Cancel()
	assert.False(t, seq.active)

	_, err := seq.Start(5)
	require.NoError(t, err)
	seq.Cancel()
	seq.Cancel()
	assert.False(t, seq.active)
	assert.Equal(t, 0, seq.remaining)
}

func TestCancelDiscardsOutstandingTick(t *testing.T) {
	seq := New(time.Millisecond)
	_, err := seq.Start(5)
	require.NoError(t, err)
	seq.Update(current(seq))
	seq.Update(current(seq))
	stale := current(seq)
	seq.Cancel()

	_, cmd, ok := seq.Update(stale)
	assert.False(t, ok)
	assert.Nil(t, cmd)

	_, err = seq.Start(5)
	require.NoError(t, err)
	_, _, ok = seq.Update(stale)
	assert.False(t, ok, "old tick must not advance the restarted countdown")
	assert.Equal(t, 5, seq.remaining)
}

func TestTickCommandDeliversMessage(t *testing.T) {
	seq := New(time.Millisecond)
	cmd, err := seq.Start(2)
	require.NoError(t, err)

	msg, ok := cmd().(TickMsg)
	require.True(t, ok)
	step, _, accepted := seq.Update(msg)
	require.True(t, accepted)
	assert.Equal(t, 1, step.Remaining)
}

func TestForeignTickIgnored(t *testing.T) {
	a := New(time.Millisecond)
	b := New(time.Millisecond)
	_, err := a.Start(5)
	require.NoError(t, err)
	_, err = b.Start(5)
	require.NoError(t, err)

	_, _, ok := a.Update(current(b))
	assert.False(t, ok)
}
