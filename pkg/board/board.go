// Package board dispatches button edges to the LED strip and
// exposes the mutations used by the command protocol.
package board

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/keypad.go/pkg/anim"
	"github.com/robotalks/keypad.go/pkg/led"
)

// Input reads the raw button register. A cleared bit is a pressed button.
type Input interface {
	ReadButtons() (uint16, error)
}

// BusFault is a failure of the underlying bus. It is not recoverable
// without resetting the device.
type BusFault struct {
	Device string
	Err    error
}

// Error implements error.
func (e *BusFault) Error() string {
	return fmt.Sprintf("%s bus fault: %v", e.Device, e.Err)
}

// Unwrap returns the cause.
func (e *BusFault) Unwrap() error {
	return e.Err
}

// IsBusFault tells if err is caused by a BusFault.
func IsBusFault(err error) bool {
	var fault *BusFault
	return errors.As(err, &fault)
}

// Board owns the strip, the buttons and the keyboard switch.
type Board struct {
	Strip *led.Strip
	Input Input

	buttons         [NumButtons]Button
	keyboardEnabled bool
}

// New creates a Board.
func New(input Input, strip *led.Strip) *Board {
	b := &Board{Strip: strip, Input: input}
	for i := range b.buttons {
		b.buttons[i] = Button{Index: i, LED: LEDIndex(i)}
	}
	return b
}

// Button returns the button at index mod NumButtons.
func (b *Board) Button(index int) *Button {
	return &b.buttons[uint(index)%NumButtons]
}

// KeyboardEnabled tells if keys are reported.
func (b *Board) KeyboardEnabled() bool {
	return b.keyboardEnabled
}

// EnableKeyboardInput switches key reporting.
func (b *Board) EnableKeyboardInput(enabled bool) {
	b.keyboardEnabled = enabled
}

// OnPress arms a callback for the next press of a button.
func (b *Board) OnPress(button int, cb *Callback) {
	b.Button(button).onPress = cb
}

// OnRelease arms a callback for the next release of a button.
func (b *Board) OnRelease(button int, cb *Callback) {
	b.Button(button).onRelease = cb
}

// Poll reads the buttons, moves every LED to the state of its button
// and runs the callbacks of the edges found. It returns the scancodes
// of the pressed buttons, at most MaxKeys, while the keyboard is enabled.
func (b *Board) Poll() ([]byte, error) {
	raw, err := b.Input.ReadButtons()
	if err != nil {
		return nil, errors.Wrap(&BusFault{Device: "input", Err: err}, "poll buttons")
	}
	mask := ^raw
	var (
		keys  []byte
		fired []*Callback
	)
	for i := range b.buttons {
		btn := &b.buttons[i]
		pressed := mask&(1<<uint(i)) != 0
		state, cb := btn.nextState(pressed)
		b.Strip.LED(btn.LED).SetButtonState(state)
		if cb != nil {
			glog.V(3).Infof("button %d %s: %d actions", i, state, len(cb.Actions))
			fired = append(fired, cb)
		}
		if pressed && b.keyboardEnabled && len(keys) < MaxKeys {
			keys = append(keys, btn.Scancode())
		}
	}
	for _, cb := range fired {
		for _, a := range cb.Actions {
			if err := b.Apply(a); err != nil {
				glog.Errorf("callback action %s error: %v", a.Kind, err)
			}
		}
	}
	return keys, nil
}

// AddState inserts a transition for an LED and state.
func (b *Board) AddState(ledIndex, slot int, t led.Transition, s led.ButtonState) {
	b.Strip.LED(ledIndex).AddState(slot, t, s)
}

// RemoveState resets a slot for an LED and state.
func (b *Board) RemoveState(ledIndex, slot int, s led.ButtonState) {
	b.Strip.LED(ledIndex).RemoveState(slot, s)
}

// ClearStates wipes queues of an LED.
func (b *Board) ClearStates(ledIndex int, states ...led.ButtonState) {
	b.Strip.LED(ledIndex).Clear(states...)
}

// LockLED pins an LED to a state.
func (b *Board) LockLED(ledIndex int, s led.ButtonState) {
	b.Strip.LED(ledIndex).Lock(s)
}

// LockAll pins every LED to a state.
func (b *Board) LockAll(s led.ButtonState) {
	b.Strip.LockAll(s)
}

// UnlockLED removes the lock of an LED.
func (b *Board) UnlockLED(ledIndex int) {
	b.Strip.LED(ledIndex).Unlock()
}

// UnlockAll removes every lock.
func (b *Board) UnlockAll() {
	b.Strip.UnlockAll()
}

// Refresh renders and transmits one frame.
func (b *Board) Refresh() error {
	if err := b.Strip.Refresh(); err != nil {
		return errors.Wrap(&BusFault{Device: "output", Err: err}, "refresh")
	}
	return nil
}

// SelfTest flashes every LED white then black and leaves them cleared.
func (b *Board) SelfTest() error {
	b.Strip.Full(led.BrightnessMask, led.White)
	if err := b.Refresh(); err != nil {
		return err
	}
	b.Strip.Full(led.BrightnessMask, led.Black)
	if err := b.Refresh(); err != nil {
		return err
	}
	b.Strip.ClearAll()
	return b.Refresh()
}

// Startup animation parameters.
var (
	StartupColour   = led.RGB(0x50, 0, 0x50)
	StartupSpeed    = uint16(100)
	UnlockButton    = 5
	UnlockColour    = led.RGB(0, 0x70, 0x10)
	UnlockSpeed     = uint16(500)
	RandomFadesSeed = int64(69)
)

// Startup locks every LED to Idle and plays a loading circle with the
// unlock button breathing. Pressing it installs random fades, unlocks
// the LEDs and enables the keyboard.
func (b *Board) Startup() {
	b.Strip.LockAll(led.Idle)
	anim.LoadingCircle(b.Strip, StartupColour, StartupSpeed)
	anim.Breathing(b.Strip, UnlockButton, led.Idle, UnlockColour, UnlockSpeed)
	b.OnPress(ButtonIndex(UnlockButton), Do(
		Action{Kind: ActionClearAll},
		Animate("random-fades", anim.Params{Seed: RandomFadesSeed}),
		Action{Kind: ActionUnlockAll},
		Action{Kind: ActionEnableKeyboard},
	))
}

// Status is a snapshot of the board.
type Status struct {
	Pressed         uint16
	Locked          uint16
	KeyboardEnabled bool
	States          [led.NumLEDs]led.ButtonState
}

// Status takes a snapshot.
func (b *Board) Status() Status {
	st := Status{KeyboardEnabled: b.keyboardEnabled}
	for i := range b.buttons {
		if b.buttons[i].pressed {
			st.Pressed |= 1 << uint(i)
		}
	}
	for i := 0; i < led.NumLEDs; i++ {
		l := b.Strip.LED(i)
		if _, locked := l.Locked(); locked {
			st.Locked |= 1 << uint(i)
		}
		st.States[i] = l.Governing()
	}
	return st
}
