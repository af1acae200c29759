package led

import (
	"io"

	"github.com/golang/glog"
)

// NumLEDs is the number of LEDs on the strip.
const NumLEDs = 16

const (
	startMarkerSize = 4
	endMarkerSize   = 4
	// PacketSize is the size of the packet written per refresh.
	PacketSize = startMarkerSize + NumLEDs*FrameSize + endMarkerSize
)

// Strip owns the LED controllers and the output transport.
type Strip struct {
	Writer io.Writer

	leds [NumLEDs]Controller
	buf  [PacketSize]byte
}

// NewStrip creates a Strip writing to w.
func NewStrip(w io.Writer) *Strip {
	return &Strip{Writer: w}
}

// LED returns the controller at index mod NumLEDs.
func (s *Strip) LED(index int) *Controller {
	return &s.leds[uint(index)%NumLEDs]
}

// Render renders every LED in physical order and returns the packet:
// a zero start marker, one record per LED and a zero end marker.
// The returned slice is reused by the next call.
func (s *Strip) Render() []byte {
	pkt := s.buf[:]
	for n := range s.leds {
		rec := s.leds[n].Render().Bytes()
		copy(pkt[startMarkerSize+n*FrameSize:], rec[:])
	}
	return pkt
}

// Refresh renders and writes one packet.
func (s *Strip) Refresh() error {
	pkt := s.Render()
	if glog.V(5) {
		glog.Infof("refresh % x", pkt[startMarkerSize:PacketSize-endMarkerSize])
	}
	_, err := s.Writer.Write(pkt)
	return err
}

// Full shows a constant brightness and colour on every LED, discarding
// all other animation.
func (s *Strip) Full(brightness uint8, c Colour) {
	for n := range s.leds {
		led := &s.leds[n]
		led.Clear(AllButtonStates...)
		led.AddState(0, Solid(brightness, c, 0, 0), Idle)
	}
}

// ClearAll wipes every queue of every LED.
func (s *Strip) ClearAll() {
	for n := range s.leds {
		s.leds[n].Clear(AllButtonStates...)
	}
}

// LockAll locks every LED to a state.
func (s *Strip) LockAll(state ButtonState) {
	for n := range s.leds {
		s.leds[n].Lock(state)
	}
}

// UnlockAll unlocks every LED.
func (s *Strip) UnlockAll() {
	for n := range s.leds {
		s.leds[n].Unlock()
	}
}
