package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramerCutsBySize(t *testing.T) {
	f := NewFramer(4)
	for n, b := range []byte{1, 2, 3} {
		pkt, action := f.Parse(b)
		require.Nil(t, pkt)
		require.Equal(t, TimerRestart, action)
		require.Equal(t, n+1, f.Pending())
	}
	pkt, action := f.Parse(4)
	require.Equal(t, []byte{1, 2, 3, 4}, pkt)
	require.Equal(t, TimerStop, action)
	require.Zero(t, f.Pending())
	require.Nil(t, f.Timeout())
}

func TestFramerFlushesOnTimeout(t *testing.T) {
	f := NewFramer(4)
	f.Parse(9)
	f.Parse(8)
	require.Equal(t, []byte{9, 8}, f.Timeout())
	require.Nil(t, f.Timeout())

	// next packet starts fresh.
	for _, b := range []byte{1, 2, 3} {
		f.Parse(b)
	}
	pkt, _ := f.Parse(4)
	require.Equal(t, []byte{1, 2, 3, 4}, pkt)

	f.Parse(5)
	f.Reset()
	require.Zero(t, f.Pending())
}
