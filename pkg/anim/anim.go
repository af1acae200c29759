// Package anim installs animation presets into the queues of a strip.
package anim

import (
	"fmt"
	"math/rand"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/robotalks/keypad.go/pkg/led"
)

// Ring is the order of the outer LEDs going clockwise.
var Ring = []int{0, 1, 2, 3, 7, 11, 15, 14, 13, 12, 8, 4}

const (
	fullBrightness uint8  = 0xf0
	fadeTicks      uint16 = 500
	flashTicks     uint16 = 100
	flashFadeTicks uint16 = 250
)

// Params are the arguments of a preset.
type Params struct {
	Colour led.Colour
	Speed  uint16
	LED    int
	State  led.ButtonState
	Seed   int64
}

// Preset installs an animation.
type Preset func(*led.Strip, Params)

var presets = map[string]Preset{
	"random-fades": func(s *led.Strip, p Params) {
		RandomFades(s, rand.New(rand.NewSource(p.Seed)))
	},
	"loading-circle": func(s *led.Strip, p Params) {
		LoadingCircle(s, p.Colour, p.Speed)
	},
	"breathing": func(s *led.Strip, p Params) {
		Breathing(s, p.LED, p.State, p.Colour, p.Speed)
	},
	"full": func(s *led.Strip, p Params) {
		s.Full(led.BrightnessMask, p.Colour)
	},
}

// Names lists the preset names.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply installs the named preset.
func Apply(s *led.Strip, name string, p Params) error {
	preset, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown animation %q", name)
	}
	preset(s, p)
	return nil
}

// RandomColour picks a saturated colour.
func RandomColour(rng *rand.Rand) led.Colour {
	c := colorful.Hsv(rng.Float64()*360, 0.6+rng.Float64()*0.4, 1)
	r, g, b := c.Clamped().RGB255()
	return led.RGB(r, g, b)
}

// RandomFades gives every LED its own colour fading out and in with
// random pauses while idle, and an inverted flash when pressed.
func RandomFades(s *led.Strip, rng *rand.Rand) {
	for i := 0; i < led.NumLEDs; i++ {
		timeout := uint16(rng.Intn(1<<16) / 10)
		c := RandomColour(rng)
		l := s.LED(i)
		l.AddState(0, led.FadeOut(fullBrightness, c, fadeTicks, 1), led.Idle)
		l.AddState(1, led.Solid(0, c, timeout, 2), led.Idle)
		l.AddState(2, led.FadeIn(fullBrightness, c, fadeTicks, 3), led.Idle)
		l.AddState(3, led.Solid(fullBrightness, c, timeout, 0), led.Idle)

		inv := c.Invert()
		l.AddState(0, led.Solid(0xff, inv, flashTicks, 1), led.Pressed)
		l.AddState(1, led.FadeOut(0xff, inv, flashFadeTicks, 2), led.Pressed)
		l.AddState(2, led.Solid(0, inv, 0, 0), led.Pressed)
	}
}

// LoadingCircle lights the ring one LED after another and then turns
// them off in the same order, speed ticks per step.
func LoadingCircle(s *led.Strip, c led.Colour, speed uint16) {
	steps := uint16(len(Ring))
	for idx, i := range Ring {
		before, after := (uint16(idx)+1)*speed, (steps-uint16(idx))*speed
		l := s.LED(i)
		l.AddState(0, led.Solid(0, c, before, 1), led.Idle)
		l.AddState(1, led.FadeIn(fullBrightness, c, speed, 2), led.Idle)
		l.AddState(2, led.Solid(fullBrightness, c, after, 3), led.Idle)
		l.AddState(3, led.Solid(fullBrightness, c, before, 4), led.Idle)
		l.AddState(4, led.FadeOut(fullBrightness, c, speed, 5), led.Idle)
		l.AddState(5, led.Solid(0, c, after, 0), led.Idle)
	}
}

// Breathing fades one LED out and in for a state.
func Breathing(s *led.Strip, index int, state led.ButtonState, c led.Colour, speed uint16) {
	l := s.LED(index)
	l.AddState(0, led.FadeOut(fullBrightness, c, speed, 1), state)
	l.AddState(1, led.Solid(0, c, speed, 2), state)
	l.AddState(2, led.FadeIn(fullBrightness, c, speed, 3), state)
	l.AddState(3, led.Solid(fullBrightness, c, speed, 0), state)
}
