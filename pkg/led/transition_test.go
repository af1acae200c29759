package led

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testColour = RGB(10, 20, 30)

func TestSolidInfinite(t *testing.T) {
	tr := Solid(0x1f, testColour, 0, 3)
	for tick := 0; tick < 100000; tick++ {
		res := tr.Eval(tick)
		require.Falsef(t, res.Finished, "tick %d finished", tick)
	}
	require.Equal(t, NewFrame(0x1f, testColour), tr.Eval(12345).Frame)
}

func TestSolidDuration(t *testing.T) {
	tr := Solid(5, testColour, 3, 7)
	for tick := 0; tick < 3; tick++ {
		res := tr.Eval(tick)
		require.False(t, res.Finished)
		require.Equal(t, uint8(5), res.Frame.Level())
		require.Equal(t, testColour, res.Frame.Colour())
	}
	require.Equal(t, Result{Finished: true, Next: 7}, tr.Eval(3))
	require.Equal(t, Result{Finished: true, Next: 7}, tr.Eval(300))
}

func TestFades(t *testing.T) {
	testCases := []struct {
		name   string
		tr     Transition
		levels map[int]uint8
	}{
		{
			name:   "fade-out",
			tr:     FadeOut(31, testColour, 10, 2),
			levels: map[int]uint8{0: 31, 1: 28, 5: 16, 9: 4},
		},
		{
			name:   "fade-in",
			tr:     FadeIn(31, testColour, 10, 2),
			levels: map[int]uint8{0: 0, 1: 3, 5: 15, 9: 27},
		},
		{
			name:   "fade-out masks brightness",
			tr:     FadeOut(0xf0, testColour, 500, 1),
			levels: map[int]uint8{0: 16, 250: 8, 499: 1},
		},
		{
			name:   "fade-in masks brightness",
			tr:     FadeIn(0xff, testColour, 250, 1),
			levels: map[int]uint8{0: 0, 125: 15, 249: 30},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for tick, level := range tc.levels {
				res := tc.tr.Eval(tick)
				require.Falsef(t, res.Finished, "tick %d finished", tick)
				require.Equalf(t, level, res.Frame.Level(), "tick %d level mismatch", tick)
				require.Equalf(t, FrameHeader, res.Frame.Brightness&FrameHeader, "tick %d header missing", tick)
			}
			for _, tick := range []int{int(tc.tr.Duration), int(tc.tr.Duration) + 1, 1 << 20} {
				require.Equalf(t, Result{Finished: true, Next: tc.tr.Next}, tc.tr.Eval(tick), "tick %d not finished", tick)
			}
		})
	}
}

func TestFadeZeroDuration(t *testing.T) {
	require.True(t, FadeOut(31, testColour, 0, 1).Eval(0).Finished)
	require.True(t, FadeIn(31, testColour, 0, 1).Eval(0).Finished)
}

func TestForward(t *testing.T) {
	require.Equal(t, Result{Finished: true, Next: 9}, Forward(9).Eval(0))
	_, err := Forward(9).Encode()
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDecodeTransition(t *testing.T) {
	tr, err := DecodeTransition([DescriptorSize]byte{0x23, 0xa5, 0x1f, 10, 20, 30, 0x01, 0xf4})
	require.NoError(t, err)
	require.Equal(t, FadeIn(0x1f, testColour, 500, 5), tr)

	for _, kind := range []byte{3, 4, 7} {
		_, err = DecodeTransition([DescriptorSize]byte{kind << 4})
		require.ErrorIsf(t, err, ErrInvalidTransition, "kind %d", kind)
	}

	for _, tr := range []Transition{
		Solid(0x1f, White, 0, 0),
		FadeOut(3, testColour, 0xffff, 15),
		FadeIn(0, Black, 1, 1),
	} {
		b, err := tr.Encode()
		require.NoError(t, err)
		decoded, err := DecodeTransition(b)
		require.NoError(t, err)
		require.Equal(t, tr, decoded)
	}
}
