package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotResolver(t *testing.T) {
	tbl := NewTable(8, DefaultQueueLayout())
	r := NewSlotResolver(tbl)

	slot, err := r.Vacant(13)
	require.NoError(t, err)
	assert.Equal(t, 5, slot)
	_, err = tbl.Create(slot, userArgs(13, 1))
	require.NoError(t, err)

	got, err := r.Resolve(13)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	_, err = r.Resolve(5)
	assert.ErrorIs(t, err, ErrUnknownProcess, "other generation of the same slot")
	_, err = r.Vacant(21)
	assert.ErrorIs(t, err, ErrSlotInUse)
	_, err = r.Resolve(6)
	assert.ErrorIs(t, err, ErrUnknownProcess, "empty slot")
}

func TestSlotResolver_NegativeEndpoint(t *testing.T) {
	r := NewSlotResolver(NewTable(8, DefaultQueueLayout()))

	slot, err := r.Vacant(-3)

	require.NoError(t, err)
	assert.Equal(t, 5, slot)
}
