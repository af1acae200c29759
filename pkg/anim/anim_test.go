package anim

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/keypad.go/pkg/led"
)

func TestRandomFadesDeterministic(t *testing.T) {
	a, b := led.NewStrip(&bytes.Buffer{}), led.NewStrip(&bytes.Buffer{})
	require.NoError(t, Apply(a, "random-fades", Params{Seed: 69}))
	require.NoError(t, Apply(b, "random-fades", Params{Seed: 69}))
	for i := 0; i < led.NumLEDs; i++ {
		for slot := 0; slot < 4; slot++ {
			require.Equal(t, a.LED(i).Queue(led.Idle).Slot(slot), b.LED(i).Queue(led.Idle).Slot(slot))
		}
		idle := a.LED(i).Queue(led.Idle).Slot(0)
		pressed := a.LED(i).Queue(led.Pressed).Slot(0)
		require.Equal(t, led.KindFadeOut, idle.Kind)
		require.Equal(t, idle.Colour.Invert(), pressed.Colour)
		require.Equal(t, led.Forward(4), a.LED(i).Queue(led.Pressed).Slot(3))
	}
}

func TestLoadingCircleOrder(t *testing.T) {
	s := led.NewStrip(&bytes.Buffer{})
	c := led.RGB(0x50, 0, 0x50)
	LoadingCircle(s, c, 100)
	for idx, i := range Ring {
		q := s.LED(i).Queue(led.Idle)
		require.Equal(t, led.Solid(0, c, uint16(idx+1)*100, 1), q.Slot(0))
		require.Equal(t, led.Solid(0, c, uint16(12-idx)*100, 0), q.Slot(5))
	}
	require.Equal(t, led.Forward(1), s.LED(5).Queue(led.Idle).Slot(0))

	// the first LED lights up after one step, the second after two.
	for tick := 0; tick < 101; tick++ {
		s.Render()
	}
	require.Equal(t, uint8(0), s.LED(0).Frame().Level())
	s.Render()
	require.Equal(t, uint8(0), s.LED(0).Frame().Level())
	for tick := 0; tick < 60; tick++ {
		s.Render()
	}
	require.NotZero(t, s.LED(0).Frame().Level())
	require.Zero(t, s.LED(1).Frame().Level())
}

func TestBreathing(t *testing.T) {
	s := led.NewStrip(&bytes.Buffer{})
	c := led.RGB(0, 0x70, 0x10)
	Breathing(s, 21, led.Held, c, 500)
	q := s.LED(5).Queue(led.Held)
	require.Equal(t, led.FadeOut(0xf0, c, 500, 1), q.Slot(0))
	require.Equal(t, led.Solid(0xf0, c, 500, 0), q.Slot(3))
}

func TestApplyUnknown(t *testing.T) {
	require.Error(t, Apply(led.NewStrip(&bytes.Buffer{}), "sparkle", Params{}))
	require.Contains(t, Names(), "breathing")
}

func TestRandomColour(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 100; n++ {
		c := RandomColour(rng)
		require.NotEqual(t, led.Black, c)
	}
}
