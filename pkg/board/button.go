package board

import "github.com/robotalks/keypad.go/pkg/led"

// NumButtons is the number of buttons on the board.
const NumButtons = 16

// MaxKeys is the number of simultaneous keys in a keyboard report.
const MaxKeys = 6

// ScancodeBase is the scancode of the LED with index 0.
const ScancodeBase = 4

// Button is one physical button.
type Button struct {
	Index int
	LED   int

	pressed   bool
	onPress   *Callback
	onRelease *Callback
}

// LEDIndex maps a button bit to its LED, the PCB rotates the
// rows by half the board.
func LEDIndex(button int) int {
	return (button + NumButtons/2) % NumButtons
}

// ButtonIndex is the inverse of LEDIndex.
func ButtonIndex(ledIndex int) int {
	return (ledIndex + NumButtons/2) % NumButtons
}

// Pressed returns the last known pressed flag.
func (b *Button) Pressed() bool {
	return b.pressed
}

// Scancode is the keyboard usage code reported for the button.
func (b *Button) Scancode() byte {
	return byte(b.LED + ScancodeBase)
}

// nextState classifies an edge and returns the new LED state.
func (b *Button) nextState(pressed bool) (led.ButtonState, *Callback) {
	switch {
	case pressed && b.pressed:
		return led.Held, nil
	case pressed:
		b.pressed = true
		return led.Pressed, take(&b.onPress)
	case b.pressed:
		b.pressed = false
		return led.Released, take(&b.onRelease)
	}
	return led.Idle, nil
}

// take removes an armed callback unless it asks to be kept.
func take(slot **Callback) *Callback {
	cb := *slot
	if cb == nil {
		return nil
	}
	cb.Fired++
	if !cb.Keep {
		*slot = nil
	}
	return cb
}
