package kernel

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ScheduleRequiresTakeOver(t *testing.T) {
	r := NewRecorder()

	assert.ErrorIs(t, r.Schedule(3, 7, 200), ErrNotOwned)

	require.NoError(t, r.TakeOver(3))
	require.NoError(t, r.Schedule(3, 7, 200))
	a, ok := r.Assignment(3)
	assert.True(t, ok)
	assert.Equal(t, Assignment{Queue: 7, Quantum: 200}, a)
}

func TestRecorder_FailedScheduleKeepsPreviousAssignment(t *testing.T) {
	r := NewRecorder()
	refused := errors.New("refused")
	require.NoError(t, r.TakeOver(3))
	require.NoError(t, r.Schedule(3, 7, 200))

	r.FailSchedule(3, refused)
	assert.ErrorIs(t, r.Schedule(3, 12, 200), refused)

	a, _ := r.Assignment(3)
	assert.Equal(t, 7, a.Queue)

	r.Clear(3)
	assert.NoError(t, r.Schedule(3, 12, 200))
}

func TestRecorder_FailTakeOver(t *testing.T) {
	r := NewRecorder()
	refused := errors.New("refused")
	r.FailTakeOver(4, refused)

	assert.ErrorIs(t, r.TakeOver(4), refused)
	assert.ErrorIs(t, r.Schedule(4, 7, 200), ErrNotOwned)
}

func TestRecorder_CallsInOrder(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.TakeOver(1))
	require.NoError(t, r.Schedule(1, 5, 100))
	_ = r.Schedule(2, 5, 100)

	calls := r.Calls()

	require.Len(t, calls, 3)
	assert.Equal(t, "takeover", calls[0].Op)
	assert.Equal(t, Call{Op: "schedule", Endpoint: 1, Queue: 5, Quantum: 100}, calls[1])
	assert.ErrorIs(t, calls[2].Err, ErrNotOwned)
}

func TestRecorder_Release(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.TakeOver(1))
	require.NoError(t, r.Schedule(1, 5, 100))

	r.Release(1)

	_, ok := r.Assignment(1)
	assert.False(t, ok)
	assert.ErrorIs(t, r.Schedule(1, 5, 100), ErrNotOwned)
}

func TestRecorder_FailureRate(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.TakeOver(1))
	r.SetFailureRate(1, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, r.Schedule(1, 5, 100), ErrInjected)

	r.SetFailureRate(0, nil)
	assert.NoError(t, r.Schedule(1, 5, 100))
}
