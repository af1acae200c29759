package led

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind selects the behavior of a Transition.
type Kind uint8

// Transition kinds. The values of encodable kinds are used on the wire.
const (
	KindSolid   Kind = 0
	KindFadeOut Kind = 1
	KindFadeIn  Kind = 2
	// KindForward is the content of an unconfigured slot, it finishes
	// immediately and is never encoded.
	KindForward Kind = 0xff
)

// DescriptorSize is the size of an encoded transition.
const DescriptorSize = 8

// ErrInvalidTransition indicates a malformed transition descriptor.
var ErrInvalidTransition = errors.New("invalid transition")

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindFadeOut:
		return "fade-out"
	case KindFadeIn:
		return "fade-in"
	case KindForward:
		return "forward"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Transition is a parameterized function of elapsed ticks.
type Transition struct {
	Kind       Kind
	Brightness uint8
	Colour     Colour
	Duration   uint16
	Next       uint8
}

// Result is the outcome of evaluating a Transition at a tick.
type Result struct {
	Frame    Frame
	Finished bool
	Next     uint8
}

// Solid holds brightness and colour for duration ticks.
// A zero duration holds forever.
func Solid(brightness uint8, c Colour, duration uint16, next uint8) Transition {
	return Transition{Kind: KindSolid, Brightness: brightness, Colour: c, Duration: duration, Next: next}
}

// FadeOut dims linearly from brightness to 0 over duration ticks.
func FadeOut(brightness uint8, c Colour, duration uint16, next uint8) Transition {
	return Transition{Kind: KindFadeOut, Brightness: brightness, Colour: c, Duration: duration, Next: next}
}

// FadeIn rises linearly from 0 to brightness over duration ticks.
func FadeIn(brightness uint8, c Colour, duration uint16, next uint8) Transition {
	return Transition{Kind: KindFadeIn, Brightness: brightness, Colour: c, Duration: duration, Next: next}
}

// Forward finishes immediately and continues at next.
func Forward(next uint8) Transition {
	return Transition{Kind: KindForward, Next: next}
}

// Eval evaluates the transition at elapsed ticks.
func (t Transition) Eval(ticks int) Result {
	d := int(t.Duration)
	level := int(t.Brightness & BrightnessMask)
	switch t.Kind {
	case KindSolid:
		if d == 0 || ticks < d {
			return t.inProgress(t.Brightness)
		}
	case KindFadeOut:
		if ticks < d {
			return t.inProgress(uint8(level - ticks*level/d))
		}
	case KindFadeIn:
		if ticks < d {
			return t.inProgress(uint8(ticks * level / d))
		}
	}
	return Result{Finished: true, Next: t.Next}
}

func (t Transition) inProgress(brightness uint8) Result {
	return Result{Frame: NewFrame(brightness, t.Colour)}
}

// String implements fmt.Stringer.
func (t Transition) String() string {
	if t.Kind == KindForward {
		return fmt.Sprintf("forward->%d", t.Next)
	}
	return fmt.Sprintf("%s(%d,%s,%d)->%d", t.Kind, t.Brightness&BrightnessMask, t.Colour, t.Duration, t.Next)
}

// DecodeTransition decodes a transition descriptor:
//
//	byte0 bits 4..6: kind
//	byte1 bits 0..3: next slot
//	byte2:           brightness
//	byte3..5:        red, green, blue
//	byte6..7:        duration, big-endian
//
// Other bits are ignored.
func DecodeTransition(b [DescriptorSize]byte) (Transition, error) {
	t := Transition{
		Kind:       Kind((b[0] >> 4) & 0x07),
		Next:       b[1] & 0x0f,
		Brightness: b[2],
		Colour:     Colour{R: b[3], G: b[4], B: b[5]},
		Duration:   binary.BigEndian.Uint16(b[6:]),
	}
	switch t.Kind {
	case KindSolid, KindFadeOut, KindFadeIn:
		return t, nil
	}
	return Transition{}, fmt.Errorf("%w: kind %d", ErrInvalidTransition, t.Kind)
}

// Encode is the inverse of DecodeTransition, leaving unused bits zero.
func (t Transition) Encode() ([DescriptorSize]byte, error) {
	var b [DescriptorSize]byte
	switch t.Kind {
	case KindSolid, KindFadeOut, KindFadeIn:
	default:
		return b, fmt.Errorf("%w: kind %s not encodable", ErrInvalidTransition, t.Kind)
	}
	b[0] = byte(t.Kind) << 4
	b[1] = t.Next & 0x0f
	b[2] = t.Brightness
	b[3], b[4], b[5] = t.Colour.R, t.Colour.G, t.Colour.B
	binary.BigEndian.PutUint16(b[6:], t.Duration)
	return b, nil
}
