package led

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueUntouched(t *testing.T) {
	var q Queue
	for n := 0; n < 3*NumSlots; n++ {
		require.Equalf(t, n%NumSlots, q.Cursor(), "tick %d cursor mismatch", n)
		_, ok := q.Tick()
		require.Falsef(t, ok, "tick %d rendered", n)
		require.Zero(t, q.Counter())
	}
	require.Equal(t, 0, q.Cursor())
}

func TestQueueInsertTakesEffectAtCursor(t *testing.T) {
	var q Queue
	q.Insert(4, Solid(7, testColour, 2, 9))
	for n := 0; n < 4; n++ {
		_, ok := q.Tick()
		require.Falsef(t, ok, "slot %d rendered", n)
	}
	require.Equal(t, 4, q.Cursor())
	for n := 0; n < 2; n++ {
		f, ok := q.Tick()
		require.True(t, ok)
		require.Equal(t, NewFrame(7, testColour), f)
		require.Equal(t, n+1, q.Counter())
	}
	_, ok := q.Tick()
	require.False(t, ok)
	require.Equal(t, 9, q.Cursor())
	require.Zero(t, q.Counter())
}

func TestQueueLoop(t *testing.T) {
	var q Queue
	q.Insert(0, Solid(1, testColour, 1, 1))
	q.Insert(1, Solid(2, testColour, 1, 0))
	var levels []uint8
	for n := 0; n < 8; n++ {
		if f, ok := q.Tick(); ok {
			levels = append(levels, f.Level())
		}
	}
	require.Equal(t, []uint8{1, 2, 1, 2}, levels)
}

func TestQueueIndicesWrap(t *testing.T) {
	var q Queue
	q.Insert(17, Solid(3, testColour, 0, 0))
	require.Equal(t, KindSolid, q.Slot(1).Kind)
	q.Advance(33)
	require.Equal(t, 1, q.Cursor())
	q.Remove(-15)
	require.Equal(t, Forward(2), q.Slot(1))
	q.Insert(15, Solid(3, testColour, 1, 21))
	q.Advance(15)
	q.Tick()
	q.Tick()
	require.Equal(t, 5, q.Cursor())
}

func TestQueueRemoveAndClear(t *testing.T) {
	var q Queue
	q.Insert(15, Solid(3, testColour, 0, 0))
	q.Remove(15)
	require.Equal(t, Forward(0), q.Slot(15))

	q.Insert(2, Solid(3, testColour, 0, 0))
	q.Advance(2)
	q.Tick()
	q.Clear()
	require.Equal(t, 0, q.Cursor())
	require.Zero(t, q.Counter())
	require.Equal(t, Forward(3), q.Slot(2))
}
