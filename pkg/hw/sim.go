package hw

import (
	"encoding/hex"
	"sync/atomic"

	"github.com/golang/glog"
)

// SimInput is a button matrix driven by code.
type SimInput struct {
	pressed uint32
}

// Press presses buttons.
func (in *SimInput) Press(buttons ...int) {
	for {
		old := atomic.LoadUint32(&in.pressed)
		val := old
		for _, b := range buttons {
			val |= 1 << uint(b&15)
		}
		if atomic.CompareAndSwapUint32(&in.pressed, old, val) {
			return
		}
	}
}

// Release releases buttons.
func (in *SimInput) Release(buttons ...int) {
	for {
		old := atomic.LoadUint32(&in.pressed)
		val := old
		for _, b := range buttons {
			val &^= 1 << uint(b&15)
		}
		if atomic.CompareAndSwapUint32(&in.pressed, old, val) {
			return
		}
	}
}

// ReadButtons implements board.Input, active low like the expander.
func (in *SimInput) ReadButtons() (uint16, error) {
	return ^uint16(atomic.LoadUint32(&in.pressed)), nil
}

// LogOutput is an LED output only tracing the packets.
type LogOutput struct {
	last string
}

// Write implements io.Writer.
func (out *LogOutput) Write(p []byte) (int, error) {
	if glog.V(5) {
		if s := hex.EncodeToString(p); s != out.last {
			glog.Infof("leds: %s", s)
			out.last = s
		}
	}
	return len(p), nil
}

// LogKeyboard is a keyboard only logging the keys.
type LogKeyboard struct{}

// WriteKeys implements keypad.Keyboard.
func (LogKeyboard) WriteKeys(keys []byte) error {
	glog.V(2).Infof("keys: % x", keys)
	return nil
}
